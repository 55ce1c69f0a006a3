package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(t *testing.T) (*MessageService, *fakeRepoManager) {
	t.Helper()
	rm := newFakeRepoManager()
	s := NewMessageService(nil, rm, logging.Nop{})
	s.now = newStepClock().Now
	return s, rm
}

var form = ContactForm{Name: " Ann ", Email: "ann@example.com", ProjectType: "logo", Body: "Need a logo"}

func TestMessageService_SubmitThenList(t *testing.T) {
	s, _ := newMessageService(t)
	ctx := context.Background()

	id, err := s.Submit(ctx, form)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	m := list[0]
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "Ann", m.Name)
	assert.Equal(t, "Need a logo", m.Body)
	assert.Equal(t, models.MessageStatusNew, m.Status)
	assert.Equal(t, "UTC", m.CreatedAt.Location().String())
}

func TestMessageService_ListNewestFirst(t *testing.T) {
	s, _ := newMessageService(t)
	ctx := context.Background()

	first, err := s.Submit(ctx, form)
	require.NoError(t, err)
	second, err := s.Submit(ctx, form)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
}

func TestMessageService_SubmitValidationWritesNothing(t *testing.T) {
	cases := map[string]ContactForm{
		"blank name":    {Name: "   ", Email: "a@b.c", ProjectType: "logo"},
		"missing email": {Name: "Ann", ProjectType: "logo"},
		"missing type":  {Name: "Ann", Email: "a@b.c", ProjectType: "\t"},
		"name over 255": {Name: string(make([]rune, 256)), Email: "a@b.c", ProjectType: "logo"},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			s, rm := newMessageService(t)
			_, err := s.Submit(context.Background(), f)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Empty(t, rm.messages.rows)
		})
	}
}

func TestMessageService_UpdateStatusTouchesOnlyStatus(t *testing.T) {
	s, rm := newMessageService(t)
	ctx := context.Background()

	id, err := s.Submit(ctx, form)
	require.NoError(t, err)
	before := *rm.messages.rows[0]

	require.NoError(t, s.UpdateStatus(ctx, id, "replied"))

	after := *rm.messages.rows[0]
	assert.Equal(t, models.MessageStatusReplied, after.Status)
	after.Status = before.Status
	assert.Equal(t, before, after)

	require.NoError(t, s.UpdateStatus(ctx, id, "new"), "any transition is allowed")
}

func TestMessageService_UpdateStatusErrors(t *testing.T) {
	s, _ := newMessageService(t)
	ctx := context.Background()

	for _, status := range []string{"archived", "", "READ"} {
		err := s.UpdateStatus(ctx, 999, status)
		assert.ErrorIs(t, err, common.ErrValidation, "status %q is checked before existence", status)
	}

	err := s.UpdateStatus(ctx, 999, "read")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMessageService_Delete(t *testing.T) {
	s, _ := newMessageService(t)
	ctx := context.Background()

	id, err := s.Submit(ctx, form)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), common.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMessageService_StorageError(t *testing.T) {
	s, rm := newMessageService(t)
	rm.messages.err = common.ErrStorage

	_, err := s.Submit(context.Background(), form)
	assert.ErrorIs(t, err, common.ErrStorage)
}
