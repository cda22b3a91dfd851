package events

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestNextSequenceIncrementsPerPartition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	repo := NewSequenceRepository(mock)

	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("cart-1").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("cart-1").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(2)))
	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("cart-2").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))

	seq, err := repo.NextSequence(context.Background(), "cart-1")
	if err != nil || seq != 1 {
		t.Fatalf("expected first sequence 1, got %d (%v)", seq, err)
	}
	seq, err = repo.NextSequence(context.Background(), "cart-1")
	if err != nil || seq != 2 {
		t.Fatalf("expected second sequence 2, got %d (%v)", seq, err)
	}
	seq, err = repo.NextSequence(context.Background(), "cart-2")
	if err != nil || seq != 1 {
		t.Fatalf("expected new partition to start at 1, got %d (%v)", seq, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNextSequenceErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	repo := NewSequenceRepository(mock)

	if _, err := repo.NextSequence(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty partition key")
	}

	mock.ExpectQuery(`INSERT INTO event_sequences`).
		WithArgs("cart-err").
		WillReturnError(errors.New("db down"))
	if _, err := repo.NextSequence(context.Background(), "cart-err"); err == nil {
		t.Fatalf("expected error when the query fails")
	}
}
