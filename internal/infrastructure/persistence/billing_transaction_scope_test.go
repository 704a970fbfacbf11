package persistence

import (
	"context"
	"errors"
	"testing"

	appbilling "github.com/schoolerp/backend/internal/application/billing"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_NestedRollback(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	tenantID := uuid.New()
	snapshotErr := errors.New("snapshot failed")

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		kept, err := billing.NewFeeType(tenantID, "Tuition Fee", billing.FeeCategoryAcademic)
		if err != nil {
			return err
		}
		if err := repos.FeeTypes().Save(ctx, kept); err != nil {
			return err
		}

		// a failure inside the nested transaction must not take the outer
		// writes down with it, and must not leave its own writes behind
		nestedErr := repos.Transaction(ctx, func(nested appbilling.TransactionalRepositories) error {
			discarded, err := billing.NewFeeType(tenantID, "Exam Fee", billing.FeeCategoryAcademic)
			if err != nil {
				return err
			}
			if err := nested.FeeTypes().Save(ctx, discarded); err != nil {
				return err
			}
			return snapshotErr
		})
		require.ErrorIs(t, nestedErr, snapshotErr)
		return nil
	})
	require.NoError(t, err)

	repo := NewGormFeeTypeRepository(db)

	kept, err := repo.FindByNameForTenant(ctx, tenantID, "Tuition Fee")
	require.NoError(t, err)
	assert.NotNil(t, kept)

	discarded, err := repo.FindByNameForTenant(ctx, tenantID, "Exam Fee")
	require.NoError(t, err)
	assert.Nil(t, discarded)
}

func TestGormTransactionScope_NestedCommit(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	tenantID := uuid.New()

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		return repos.Transaction(ctx, func(nested appbilling.TransactionalRepositories) error {
			feeType, err := billing.NewFeeType(tenantID, "Lab Fee", billing.FeeCategoryAcademic)
			if err != nil {
				return err
			}
			return nested.FeeTypes().Save(ctx, feeType)
		})
	})
	require.NoError(t, err)

	found, err := NewGormFeeTypeRepository(db).FindByNameForTenant(ctx, tenantID, "Lab Fee")
	require.NoError(t, err)
	assert.NotNil(t, found)
}
