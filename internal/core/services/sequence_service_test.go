package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/services"
)

var testSequences = []domain.SequenceDefinition{
	{Kind: domain.SequenceInvoice, Prefix: "INV-", Width: 6},
	{Kind: domain.SequenceCustomer, Prefix: "CUST-", Width: 3},
	{Kind: domain.SequenceJournal, Prefix: "JE-", Width: 6},
}

func TestAllocateNext_FormatsCounterValue(t *testing.T) {
	counter := new(MockSequenceCounter)
	counter.On("Next", mock.Anything, domain.SequenceInvoice).Return(int64(42), nil).Once()
	counter.On("Next", mock.Anything, domain.SequenceCustomer).Return(int64(1234), nil).Once()

	svc := services.NewSequenceService(counter, testSequences)

	code, err := svc.AllocateNext(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-000042", code)

	code, err = svc.AllocateNext(context.Background(), domain.SequenceCustomer)
	require.NoError(t, err)
	assert.Equal(t, "CUST-1234", code, "values wider than the width are printed in full")

	counter.AssertExpectations(t)
}

func TestAllocateNext_UnknownKind(t *testing.T) {
	counter := new(MockSequenceCounter)
	svc := services.NewSequenceService(counter, testSequences)

	code, err := svc.AllocateNext(context.Background(), domain.SequenceKind("receipt"))

	assert.Empty(t, code)
	var allocErr *apperrors.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "receipt", allocErr.Sequence)
	counter.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestAllocateNext_CounterFailure(t *testing.T) {
	cause := apperrors.NewAppError(500, "failed to advance sequence", errors.New("connection reset"))
	counter := new(MockSequenceCounter)
	counter.On("Next", mock.Anything, domain.SequenceJournal).Return(int64(0), cause).Once()

	svc := services.NewSequenceService(counter, testSequences)
	code, err := svc.AllocateNext(context.Background(), domain.SequenceJournal)

	assert.Empty(t, code)
	assert.ErrorIs(t, err, apperrors.ErrAllocation)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestAllocateNext_RejectsNonPositiveValue(t *testing.T) {
	counter := new(MockSequenceCounter)
	counter.On("Next", mock.Anything, domain.SequenceJournal).Return(int64(0), nil).Once()

	svc := services.NewSequenceService(counter, testSequences)
	_, err := svc.AllocateNext(context.Background(), domain.SequenceJournal)

	assert.ErrorIs(t, err, apperrors.ErrAllocation)
}

func TestAllocateNextInTx_UsesStoreCounter(t *testing.T) {
	outside := new(MockSequenceCounter)
	store := newMockStore()
	store.sequences.On("Next", mock.Anything, domain.SequenceJournal).Return(int64(7), nil).Once()

	svc := services.NewSequenceService(outside, testSequences)
	code, err := svc.AllocateNextInTx(context.Background(), store, domain.SequenceJournal)

	require.NoError(t, err)
	assert.Equal(t, "JE-000007", code)
	outside.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	store.sequences.AssertExpectations(t)
}

func TestAllocateNext_NoCounter(t *testing.T) {
	svc := services.NewSequenceService(nil, testSequences)
	_, err := svc.AllocateNext(context.Background(), domain.SequenceInvoice)
	assert.ErrorIs(t, err, apperrors.ErrAllocation)
}
