package apperrors

import "fmt"

// InsufficientStockError: pengurangan stok yang diminta akan membuat saldo
// negatif. Recoverable, operasi tidak meninggalkan efek apapun.
type InsufficientStockError struct {
	ItemCode  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot deliver %d units of %s, only %d in stock",
		e.Requested, e.ItemCode, e.Available)
}

// InvalidStateError: operasi dicoba pada dokumen/assignment dengan status
// yang tidak mengizinkan operasi itu, misal cancel setelah SIGNED.
type InvalidStateError struct {
	Entity    string
	Reference string
	Status    string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, %s is not allowed",
		e.Entity, e.Reference, e.Status, e.Operation)
}

type NotFoundError struct {
	Entity    string
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Reference)
}

// ConsistencyViolationError: replay ledger tidak cocok dengan saldo proyeksi.
// Item dibekukan dari AdjustStock sampai direkonsiliasi manual.
type ConsistencyViolationError struct {
	ItemCode      string
	LedgerBalance int
	CurrentStock  int
}

func (e *ConsistencyViolationError) Error() string {
	return fmt.Sprintf("stock of %s is inconsistent: ledger says %d, projection says %d",
		e.ItemCode, e.LedgerBalance, e.CurrentStock)
}
