package commands

import (
	"context"
	"errors"
	"testing"

	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTx struct {
	begins, commits, rollbacks int
	commitErrs                 []error
}

func (r *recordingTx) Begin(context.Context) error {
	r.begins++
	return nil
}

func (r *recordingTx) Commit(context.Context) error {
	r.commits++
	if len(r.commitErrs) > 0 {
		err := r.commitErrs[0]
		r.commitErrs = r.commitErrs[1:]
		return err
	}
	return nil
}

func (r *recordingTx) Rollback(context.Context) error {
	r.rollbacks++
	return nil
}

func runnerFor(tx *recordingTx) txRunner[*recordingTx] {
	return txRunner[*recordingTx]{
		create: func() *recordingTx { return tx },
		policy: retry.Policy{
			MaxAttempts: 3,
			Retryable:   func(err error) bool { return errors.Is(err, errs.ErrVersionIsInvalid) },
		},
	}
}

func TestTxRunner_CommitAndFail(t *testing.T) {
	tx := &recordingTx{}
	err := runnerFor(tx).run(t.Context(), func(context.Context, *recordingTx) error {
		return commitAndFail(errs.ErrInvalidOTP)
	})

	require.ErrorIs(t, err, errs.ErrInvalidOTP)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestTxRunner_FailureRollsBack(t *testing.T) {
	tx := &recordingTx{}
	err := runnerFor(tx).run(t.Context(), func(context.Context, *recordingTx) error {
		return errs.ErrCannotCancel
	})

	require.ErrorIs(t, err, errs.ErrCannotCancel)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestTxRunner_RetriesWholeBody(t *testing.T) {
	tx := &recordingTx{commitErrs: []error{errs.NewVersionIsInvalidError("order")}}
	bodies := 0
	err := runnerFor(tx).run(t.Context(), func(context.Context, *recordingTx) error {
		bodies++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, bodies)
	assert.Equal(t, 2, tx.begins)
	assert.Equal(t, 2, tx.commits)
}

func TestTxRunner_CommittedFailureLostOnConflict(t *testing.T) {
	tx := &recordingTx{commitErrs: []error{errs.NewVersionIsInvalidError("order")}}
	calls := 0
	err := runnerFor(tx).run(t.Context(), func(context.Context, *recordingTx) error {
		calls++
		if calls == 1 {
			return commitAndFail(errs.ErrInvalidOTP)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTxRunner_Exhausted(t *testing.T) {
	conflict := errs.NewVersionIsInvalidError("order")
	tx := &recordingTx{commitErrs: []error{conflict, conflict, conflict}}
	err := runnerFor(tx).run(t.Context(), func(context.Context, *recordingTx) error { return nil })

	require.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.Equal(t, errs.CodeInternal, errs.CodeOf(err))
	assert.Equal(t, 3, tx.begins)
}
