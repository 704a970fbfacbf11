package school

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcademicSession(t *testing.T) {
	tenantID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("creates valid session", func(t *testing.T) {
		session, err := NewAcademicSession(tenantID, "Academic Year 2026-27", "2026-27", start, end)

		require.NoError(t, err)
		assert.Equal(t, "2026-27", session.Code)
		assert.True(t, session.Active)
	})

	t.Run("fails when end precedes start", func(t *testing.T) {
		session, err := NewAcademicSession(tenantID, "Bad", "bad", end, start)

		assert.Error(t, err)
		assert.Nil(t, session)
		assert.Contains(t, err.Error(), "must be after")
	})

	t.Run("fails with empty code", func(t *testing.T) {
		session, err := NewAcademicSession(tenantID, "Academic Year 2026-27", "", start, end)

		assert.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestAcademicSession_Contains(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)
	session, err := NewAcademicSession(uuid.New(), "Academic Year 2026-27", "2026-27", start, end)
	require.NoError(t, err)

	assert.True(t, session.Contains(start))
	assert.True(t, session.Contains(end))
	assert.True(t, session.Contains(start.AddDate(0, 6, 0)))
	assert.False(t, session.Contains(start.AddDate(0, 0, -1)))
	assert.False(t, session.Contains(end.AddDate(0, 0, 1)))
}

func TestStudentEnrollment(t *testing.T) {
	tenantID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()

	t.Run("creates enrollment without a class", func(t *testing.T) {
		enrollment, err := NewStudentEnrollment(tenantID, studentID, sessionID, nil, "")

		require.NoError(t, err)
		assert.False(t, enrollment.HasClass())
	})

	t.Run("assigns and removes class", func(t *testing.T) {
		enrollment, err := NewStudentEnrollment(tenantID, studentID, sessionID, nil, "")
		require.NoError(t, err)

		classID := uuid.New()
		require.NoError(t, enrollment.AssignClass(classID, "Grade 5-A"))
		assert.True(t, enrollment.HasClass())
		assert.Equal(t, "Grade 5-A", enrollment.ClassName)

		enrollment.RemoveClass()
		assert.False(t, enrollment.HasClass())
		assert.Empty(t, enrollment.ClassName)
	})

	t.Run("rejects nil class assignment", func(t *testing.T) {
		enrollment, err := NewStudentEnrollment(tenantID, studentID, sessionID, nil, "")
		require.NoError(t, err)

		assert.Error(t, enrollment.AssignClass(uuid.Nil, ""))
	})
}
