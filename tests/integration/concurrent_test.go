package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/p2pledger/transferd/internal/adapter/repository/postgres"
	"github.com/p2pledger/transferd/internal/usecase"
	"github.com/p2pledger/transferd/tests/testutil"
)

func TestConcurrentTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ledgerUC := newLedgerUseCase(testDB.Pool)
	accountRepo := postgres.NewAccountRepository(testDB.Pool)

	t.Run("100 concurrent transfers from same account no overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "alice", "correct horse")
		source := testDB.CreateTestAccount(ctx, user.ID, 1000)
		dest := testDB.CreateTestAccount(ctx, user.ID, 0)

		const (
			numTransfers   = 100
			transferAmount = 10
		)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTransfers)

		for i := 0; i < numTransfers; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
					FromNumber: source.Number,
					ToNumber:   dest.Number,
					Amount:     transferAmount,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		// 1000 / 10 = 100: every transfer fits exactly.
		if successCount.Load() != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d (errors: %d)",
				numTransfers, successCount.Load(), errorCount.Load())
		}

		sourceAcc, err := accountRepo.GetByID(ctx, source.ID)
		if err != nil {
			t.Fatalf("failed to reload source: %v", err)
		}
		destAcc, err := accountRepo.GetByID(ctx, dest.ID)
		if err != nil {
			t.Fatalf("failed to reload dest: %v", err)
		}

		if sourceAcc.Balance != 0 {
			t.Errorf("expected source balance 0, got %d", sourceAcc.Balance)
		}
		if destAcc.Balance != 1000 {
			t.Errorf("expected dest balance 1000, got %d", destAcc.Balance)
		}
	})

	t.Run("overdraw attempts stop at zero", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "bob", "correct horse")
		source := testDB.CreateTestAccount(ctx, user.ID, 100)
		dest := testDB.CreateTestAccount(ctx, user.ID, 0)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		// Only one of the two 80-unit transfers can fit into 100.
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func() {
				defer wg.Done()

				if _, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
					FromNumber: source.Number,
					ToNumber:   dest.Number,
					Amount:     80,
				}); err == nil {
					successCount.Add(1)
				}
			}()
		}
		wg.Wait()

		if successCount.Load() != 1 {
			t.Errorf("expected exactly one transfer to succeed, got %d", successCount.Load())
		}

		sourceAcc, err := accountRepo.GetByID(ctx, source.ID)
		if err != nil {
			t.Fatalf("failed to reload source: %v", err)
		}
		if sourceAcc.Balance != 20 {
			t.Errorf("expected source balance 20, got %d", sourceAcc.Balance)
		}
	})

	t.Run("opposing transfers do not deadlock", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		user := testDB.CreateTestUser(ctx, "carol", "correct horse")
		a := testDB.CreateTestAccount(ctx, user.ID, 10000)
		b := testDB.CreateTestAccount(ctx, user.ID, 10000)

		const rounds = 50

		var wg sync.WaitGroup
		wg.Add(2)

		transfer := func(from, to string) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := ledgerUC.Transfer(ctx, usecase.TransferInput{
					FromNumber: from,
					ToNumber:   to,
					Amount:     1,
				}); err != nil {
					t.Errorf("transfer %s -> %s failed: %v", from, to, err)
					return
				}
			}
		}

		go transfer(a.Number, b.Number)
		go transfer(b.Number, a.Number)
		wg.Wait()

		accA, err := accountRepo.GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("failed to reload account: %v", err)
		}
		accB, err := accountRepo.GetByID(ctx, b.ID)
		if err != nil {
			t.Fatalf("failed to reload account: %v", err)
		}

		// Equal flows in both directions cancel out.
		if accA.Balance != 10000 || accB.Balance != 10000 {
			t.Errorf("expected balances unchanged, got %d and %d", accA.Balance, accB.Balance)
		}
		if accA.Balance+accB.Balance != 20000 {
			t.Errorf("conservation violated: total %d", accA.Balance+accB.Balance)
		}
	})
}
