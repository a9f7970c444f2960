package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es el subconjunto de pgx que usan los repositorios.
// *pgxpool.Pool, pgx.Tx y los mocks de pgxmock lo satisfacen.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner abre transacciones sobre una conexion del pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txKey struct{}

// Transactor ejecuta funciones dentro de una transaccion de pgx.
// La transaccion activa viaja en el context para que los repositorios la usen.
type Transactor struct {
	pool TxBeginner
}

func NewTransactor(pool TxBeginner) *Transactor {
	return &Transactor{pool: pool}
}

// InTransaction abre una transaccion, llama a fn y hace commit si fn no falla.
// Ante error, panic o fallo de commit se hace rollback antes de retornar,
// y la conexion vuelve al pool en todos los caminos.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// el ctx del request puede estar cancelado; el rollback igual tiene que salir
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// Querier devuelve la transaccion activa en ctx o, si no hay, el fallback.
func Querier(ctx context.Context, fallback DBTX) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok && tx != nil {
		return tx
	}
	return fallback
}
