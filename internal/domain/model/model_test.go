package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	id, ok := NewIdentity("a1", RoleAdmin)
	require.True(t, ok)
	assert.True(t, IsAdmin(id))
	assert.Equal(t, "a1", id.AccountID())

	id, ok = NewIdentity("u1", RoleUser)
	require.True(t, ok)
	assert.False(t, IsAdmin(id))
	assert.Equal(t, RoleUser, id.Role())

	_, ok = NewIdentity("x", "owner")
	assert.False(t, ok)
}

func TestAppointmentJSON(t *testing.T) {
	a := Appointment{
		ID:          "ap1",
		UserID:      "u1",
		CounselorID: "c1",
		Counselor:   &AccountSummary{ID: "c1", Name: "Dr. C", Email: "c@example.com"},
		Type:        AppointmentShort,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:        "09:00",
		Status:      StatusPending,
	}
	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "2025-06-01", out["date"])
	assert.Equal(t, map[string]interface{}{"id": "u1"}, out["user"])
	assert.Equal(t, "Dr. C", out["counselor"].(map[string]interface{})["name"])
}

func TestSlotKey(t *testing.T) {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := Slot{CounselorID: "c", Date: d, Time: "10:00"}
	b := Slot{CounselorID: "c", Date: d, Time: "10:30"}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "c|2025-06-01|10:00", a.Key())
}

func TestAdminPasswordNotSerialized(t *testing.T) {
	raw, err := json.Marshal(Admin{ID: "a", Email: "a@example.com", HashedPassword: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}
