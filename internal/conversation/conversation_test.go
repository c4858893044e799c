package conversation_test

import (
	"testing"
	"time"

	"gigmarket_backend/internal/conversation"
	"gigmarket_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func msg(id string, orderID, gigID *string, from, to string, at time.Time, read bool) models.Message {
	m := models.Message{
		OrderID:    orderID,
		GigID:      gigID,
		SenderID:   from,
		ReceiverID: to,
		Message:    "msg " + id,
		IsRead:     read,
	}
	m.ID = id
	m.CreatedAt = at
	return m
}

func order(id, client, freelancer, gig string, updated time.Time) models.Order {
	o := models.Order{ClientID: client, FreelancerID: freelancer, GigID: gig}
	o.ID = id
	o.UpdatedAt = updated
	return o
}

func users(ids ...string) map[string]*models.User {
	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		u := &models.User{Name: "user " + id}
		u.ID = id
		out[id] = u
	}
	return out
}

func gigs(ids ...string) map[string]*models.Gig {
	out := make(map[string]*models.Gig, len(ids))
	for _, id := range ids {
		g := &models.Gig{Title: "gig " + id}
		g.ID = id
		out[id] = g
	}
	return out
}

// Диалог заказа с более свежим сообщением идёт первым
func TestDerive_MergeAndSort(t *testing.T) {
	in := conversation.Input{
		Orders: []models.Order{order("o1", "client", "free", "g1", t0)},
		OrderMessages: []models.Message{
			msg("m1", ptr("o1"), nil, "free", "client", t0.Add(2*time.Hour), false),
		},
		InquiryMessages: []models.Message{
			msg("m2", nil, ptr("g2"), "client", "other", t0.Add(time.Hour), true),
		},
		Users: users("client", "free", "other"),
		Gigs:  gigs("g1", "g2"),
	}

	convs := conversation.Derive("client", in)
	require.Len(t, convs, 2)

	assert.Equal(t, conversation.KindOrder, convs[0].Type)
	assert.Equal(t, "o1", convs[0].OrderID)
	assert.Equal(t, "free", convs[0].OtherUser.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, "gig g1", convs[0].Gig.Title)

	assert.Equal(t, conversation.KindInquiry, convs[1].Type)
	assert.Equal(t, "other", convs[1].OtherUser.ID)
	assert.Equal(t, "g2", convs[1].GigID)
	assert.Equal(t, 0, convs[1].UnreadCount)
}

// Запросы от двух клиентов по одному гигу - два разных диалога
func TestDerive_InquiryGroupedPerCounterpart(t *testing.T) {
	in := conversation.Input{
		InquiryMessages: []models.Message{
			msg("a1", nil, ptr("g1"), "clientA", "free", t0, false),
			msg("a2", nil, ptr("g1"), "free", "clientA", t0.Add(time.Minute), false),
			msg("b1", nil, ptr("g1"), "clientB", "free", t0.Add(2*time.Minute), false),
			msg("b2", nil, ptr("g1"), "clientB", "free", t0.Add(3*time.Minute), false),
		},
		Users: users("clientA", "clientB", "free"),
		Gigs:  gigs("g1"),
	}

	convs := conversation.Derive("free", in)
	require.Len(t, convs, 2)

	assert.Equal(t, "clientB", convs[0].OtherUser.ID)
	assert.Equal(t, 2, convs[0].UnreadCount)
	assert.Equal(t, "msg b2", convs[0].LastMessage.Message)

	assert.Equal(t, "clientA", convs[1].OtherUser.ID)
	assert.Equal(t, 1, convs[1].UnreadCount, "своё отправленное сообщение не считается непрочитанным")
	assert.Equal(t, "msg a2", convs[1].LastMessage.Message)
}

func TestDerive_OrderWithoutMessagesSuppressed(t *testing.T) {
	in := conversation.Input{
		Orders: []models.Order{
			order("o1", "client", "free", "g1", t0),
			order("o2", "client", "free", "g1", t0.Add(time.Hour)),
		},
		OrderMessages: []models.Message{
			msg("m1", ptr("o1"), nil, "client", "free", t0, false),
		},
		Users: users("client", "free"),
		Gigs:  gigs("g1"),
	}

	convs := conversation.Derive("free", in)
	require.Len(t, convs, 1)
	assert.Equal(t, "o1", convs[0].OrderID)
	assert.Equal(t, "client", convs[0].OtherUser.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
}

// Заказ и запрос с одним собеседником не склеиваются
func TestDerive_NoCrossDeduplication(t *testing.T) {
	in := conversation.Input{
		Orders: []models.Order{order("o1", "client", "free", "g1", t0)},
		OrderMessages: []models.Message{
			msg("m1", ptr("o1"), nil, "client", "free", t0, true),
		},
		InquiryMessages: []models.Message{
			msg("m2", nil, ptr("g1"), "client", "free", t0.Add(-time.Hour), true),
		},
		Users: users("client", "free"),
		Gigs:  gigs("g1"),
	}

	convs := conversation.Derive("client", in)
	require.Len(t, convs, 2)
	assert.Equal(t, conversation.KindOrder, convs[0].Type)
	assert.Equal(t, conversation.KindInquiry, convs[1].Type)
}

func TestDerive_InquiryWithoutGig(t *testing.T) {
	in := conversation.Input{
		InquiryMessages: []models.Message{
			msg("m1", nil, nil, "x", "me", t0, false),
			msg("m2", nil, ptr("g1"), "x", "me", t0.Add(time.Minute), false),
		},
		Users: users("x", "me"),
		Gigs:  gigs("g1"),
	}

	convs := conversation.Derive("me", in)
	require.Len(t, convs, 2)
	assert.Equal(t, "g1", convs[0].GigID)
	assert.Empty(t, convs[1].GigID)
	assert.Nil(t, convs[1].Gig)
}

func TestDerive_IgnoresForeignRecords(t *testing.T) {
	in := conversation.Input{
		Orders: []models.Order{order("o1", "a", "b", "g1", t0)},
		OrderMessages: []models.Message{
			msg("m1", ptr("o1"), nil, "a", "b", t0, false),
		},
		InquiryMessages: []models.Message{
			msg("m2", nil, ptr("g1"), "a", "b", t0, false),
		},
	}

	assert.Empty(t, conversation.Derive("stranger", in))
}

func TestDerive_UnknownCounterpartKeepsID(t *testing.T) {
	in := conversation.Input{
		InquiryMessages: []models.Message{
			msg("m1", nil, ptr("g1"), "ghost", "me", t0, false),
		},
	}

	convs := conversation.Derive("me", in)
	require.Len(t, convs, 1)
	assert.Equal(t, "ghost", convs[0].OtherUser.ID)
	assert.Nil(t, convs[0].Gig)
}
