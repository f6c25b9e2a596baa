package memory

import "context"

type contextKey string

const transactionKey contextKey = "memoryTransaction"

// transaction журнал отмены записей, сделанных внутри InTx
type transaction struct {
	undo []func()
}

func withTransaction(ctx context.Context, tx *transaction) context.Context {
	return context.WithValue(ctx, transactionKey, tx)
}

func transactionFrom(ctx context.Context) *transaction {
	tx, _ := ctx.Value(transactionKey).(*transaction)

	return tx
}

// remember запоминает прежнее значение ключа для отката транзакции.
// Вызывается под db.mu, вне транзакции ничего не делает.
func remember[K comparable, V any](ctx context.Context, m map[K]V, key K) {
	tx := transactionFrom(ctx)
	if tx == nil {
		return
	}

	prev, existed := m[key]
	tx.undo = append(tx.undo, func() {
		if existed {
			m[key] = prev
			return
		}
		delete(m, key)
	})
}
