package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApprovalGate(t *testing.T, sc upstream.SourceControl) (ListPendingDeploymentsUsecase, ApproveDeploymentUsecase, RejectDeploymentUsecase) {
	t.Helper()
	injector := do.New()
	do.ProvideValue(injector, sc)

	list, err := NewListPendingDeploymentsUsecase(injector)
	require.NoError(t, err)
	approve, err := NewApproveDeploymentUsecase(injector)
	require.NoError(t, err)
	reject, err := NewRejectDeploymentUsecase(injector)
	require.NoError(t, err)
	return list, approve, reject
}

func TestListPendingDeployments_OldestFirst(t *testing.T) {
	now := time.Now()
	sc := &fakeSourceControl{
		open: map[int]entity.DeploymentProposal{
			12: {Number: 12, Version: "1.0.2", CreatedAt: now},
			10: {Number: 10, Version: "1.0.0", CreatedAt: now.Add(-2 * time.Hour)},
			11: {Number: 11, Version: "1.0.1", CreatedAt: now.Add(-time.Hour)},
		},
	}
	list, _, _ := newApprovalGate(t, sc)

	proposals, err := list.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, proposals, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{proposals[0].Number, proposals[1].Number, proposals[2].Number})
}

func TestApproveDeployment_RemovesFromPending(t *testing.T) {
	sc := &fakeSourceControl{
		open: map[int]entity.DeploymentProposal{5: {Number: 5, CreatedAt: time.Now()}},
	}
	list, approve, _ := newApprovalGate(t, sc)

	require.NoError(t, approve.Execute(context.Background(), 5))

	proposals, err := list.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, proposals, "an approved proposal disappears from the pending listing")
}

func TestApproveDeployment_SecondApproveAlreadyResolved(t *testing.T) {
	sc := &fakeSourceControl{
		open: map[int]entity.DeploymentProposal{5: {Number: 5, CreatedAt: time.Now()}},
	}
	_, approve, _ := newApprovalGate(t, sc)

	require.NoError(t, approve.Execute(context.Background(), 5))
	err := approve.Execute(context.Background(), 5)
	require.ErrorIs(t, err, entity.ErrAlreadyResolved)
}

func TestRejectDeployment_UnknownProposalNotFound(t *testing.T) {
	_, _, reject := newApprovalGate(t, &fakeSourceControl{})

	err := reject.Execute(context.Background(), 404)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestApproveRejectRace_ExactlyOneWins(t *testing.T) {
	for range 20 {
		sc := &fakeSourceControl{
			open: map[int]entity.DeploymentProposal{7: {Number: 7, CreatedAt: time.Now()}},
		}
		_, approve, reject := newApprovalGate(t, sc)

		var wg sync.WaitGroup
		var approveErr, rejectErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			approveErr = approve.Execute(context.Background(), 7)
		}()
		go func() {
			defer wg.Done()
			rejectErr = reject.Execute(context.Background(), 7)
		}()
		wg.Wait()

		if approveErr == nil {
			require.Error(t, rejectErr, "approve won, reject must observe a resolved proposal")
		} else {
			require.NoError(t, rejectErr, "reject won, approve must have failed")
			require.ErrorIs(t, approveErr, entity.ErrAlreadyResolved)
		}
	}
}
