package models

type UserRole string
type GigStatus string
type GigCategory string
type OrderStatus string

const (
	UserRoleClient     UserRole = "client"
	UserRoleFreelancer UserRole = "freelancer"

	GigStatusActive   GigStatus = "active"
	GigStatusInactive GigStatus = "inactive"

	GigCategoryProgramming GigCategory = "programming"
	GigCategoryDesign      GigCategory = "design"
	GigCategoryWriting     GigCategory = "writing"
	GigCategoryMarketing   GigCategory = "marketing"
	GigCategoryBusiness    GigCategory = "business"
	GigCategoryOther       GigCategory = "other"

	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var GigCategories = []GigCategory{
	GigCategoryProgramming,
	GigCategoryDesign,
	GigCategoryWriting,
	GigCategoryMarketing,
	GigCategoryBusiness,
	GigCategoryOther,
}

func (c GigCategory) Valid() bool {
	for _, v := range GigCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (s GigStatus) Valid() bool {
	return s == GigStatusActive || s == GigStatusInactive
}

// FreelancerSettable - статусы, которые фрилансер выставляет сам.
// Порядок между ними не проверяется.
func (s OrderStatus) FreelancerSettable() bool {
	switch s {
	case OrderStatusAccepted, OrderStatusInProgress, OrderStatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
