package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"counsel_hub/internal/common"
	"counsel_hub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) booking(date, time string) AppointmentInput {
	return AppointmentInput{
		Counselor: ptr(f.counselor.ID),
		Type:      ptr("short"),
		Date:      ptr(date),
		Time:      ptr(time),
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, appt.Status)
	assert.Equal(t, f.client.ID, appt.UserID)
	require.NotNil(t, appt.Counselor)
	assert.Equal(t, "Dr. Ade", appt.Counselor.Name)

	require.NoError(t, f.tasks.Wait(ctx))
	sent := f.mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "client@example.com", sent[0].To)
}

func TestCreateAppointmentEmailFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.mail.Fail = true
	_, err := f.appts.Create(context.Background(), f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)
	require.NoError(t, f.tasks.Wait(context.Background()))
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := f.booking("2025-06-01", "25:00")
	_, err := f.appts.Create(ctx, f.clientID(), bad)
	assert.True(t, errors.Is(err, common.ErrValidation))

	bad = f.booking("2025-06-01", "10:00")
	bad.Type = ptr("medium")
	_, err = f.appts.Create(ctx, f.clientID(), bad)
	assert.True(t, errors.Is(err, common.ErrValidation))

	bad = f.booking("June 1", "10:00")
	_, err = f.appts.Create(ctx, f.clientID(), bad)
	assert.True(t, errors.Is(err, common.ErrValidation))

	bad = f.booking("2025-06-01", "10:00")
	bad.Counselor = ptr("00000000-0000-0000-0000-000000000000")
	_, err = f.appts.Create(ctx, f.clientID(), bad)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSlotTakenSequential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)

	_, err = f.appts.Create(ctx, f.adminID(), f.booking("2025-06-01T08:00:00Z", "10:00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.Equal(t, 400, common.HTTPStatusFromError(err))
	assert.Equal(t, "This time slot is already booked", common.Message(err))
}

func TestSlotTakenConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-02", "09:30"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, common.ErrSlotTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestAppointmentAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)

	stranger := f.store.SeedAccount("Other", "other@example.com", "123456", model.RoleUser)
	_, err = f.appts.Get(ctx, model.UserIdentity{ID: stranger.ID}, appt.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, "Not authorized to access this appointment", common.Message(err))

	_, err = f.appts.Get(ctx, model.UserIdentity{ID: f.counselor.ID}, appt.ID)
	assert.True(t, errors.Is(err, common.ErrUnauthorized), "booked counselor without admin role is not the owner")

	_, err = f.appts.Get(ctx, f.adminID(), appt.ID)
	assert.NoError(t, err)
}

func TestNonOwnerCannotChangeAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	counselor := f.store.SeedAccount("Plain Counselor", "plain@example.com", "123456", model.RoleUser)
	in := f.booking("2025-06-02", "09:00")
	in.Counselor = ptr(counselor.ID)
	appt, err := f.appts.Create(ctx, f.clientID(), in)
	require.NoError(t, err)

	for _, caller := range []model.Identity{
		model.UserIdentity{ID: counselor.ID},
		model.UserIdentity{ID: f.store.SeedAccount("Other", "other@example.com", "123456", model.RoleUser).ID},
	} {
		_, err = f.appts.Update(ctx, caller, appt.ID, AppointmentInput{Status: ptr("cancelled")})
		assert.True(t, errors.Is(err, common.ErrUnauthorized))

		err = f.appts.Delete(ctx, caller, appt.ID)
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	}

	stored, err := f.appts.Get(ctx, f.clientID(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestUpdateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)
	_, err = f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "11:00"))
	require.NoError(t, err)

	updated, err := f.appts.Update(ctx, f.clientID(), first.ID, AppointmentInput{Status: ptr("confirmed"), Notes: ptr("bring notes")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)

	_, err = f.appts.Update(ctx, f.clientID(), first.ID, AppointmentInput{Time: ptr("11:00")})
	assert.True(t, errors.Is(err, common.ErrSlotTaken))

	moved, err := f.appts.Update(ctx, f.clientID(), first.ID, AppointmentInput{Time: ptr("12:00")})
	require.NoError(t, err)
	assert.Equal(t, "12:00", moved.Time)

	_, err = f.appts.Update(ctx, f.clientID(), first.ID, AppointmentInput{Status: ptr("archived")})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestDeleteFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)

	require.NoError(t, f.appts.Delete(ctx, f.clientID(), appt.ID))
	_, err = f.appts.Get(ctx, f.clientID(), appt.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	assert.NoError(t, err)
}

func TestListForCounselor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.appts.Create(ctx, f.clientID(), f.booking("2025-06-01", "10:00"))
	require.NoError(t, err)

	list, err := f.appts.ListForCounselor(ctx, f.adminID(), f.counselor.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Client", list[0].User.Name)

	_, err = f.appts.ListForCounselor(ctx, f.clientID(), f.counselor.ID)
	assert.True(t, errors.Is(err, common.ErrForbidden))
}
