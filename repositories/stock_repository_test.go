package repositories

import (
	"epp-app/apperrors"
	"epp-app/models"
	"errors"
	"testing"
)

func TestAdjustStock_WritesLedgerAndProjection(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 10, 5, 24)

	stockRepo := NewStockRepository(db)
	movement, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: -2,
		Type:     models.MovementDeliveryOut,
		Reason:   "issue",
		Actor:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if movement.StockBefore != 10 || movement.StockAfter != 8 {
		t.Errorf("expected before=10 after=8, got before=%d after=%d", movement.StockBefore, movement.StockAfter)
	}
	if movement.Quantity != 2 {
		t.Errorf("ledger stores magnitude, expected 2, got %d", movement.Quantity)
	}
	if got := currentStock(t, db, item.ID); got != 8 {
		t.Errorf("expected projected stock 8, got %d", got)
	}

	assertLedgerMatchesStock(t, db, item.ID)
}

func TestAdjustStock_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-GLOVES", 1, 5, 6)

	stockRepo := NewStockRepository(db)
	_, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: -3,
		Type:     models.MovementDeliveryOut,
		Reason:   "issue",
		Actor:    1,
	})

	var insufficient *apperrors.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ItemCode != "EPP-GLOVES" || insufficient.Requested != 3 || insufficient.Available != 1 {
		t.Errorf("error should name item and shortfall, got %+v", insufficient)
	}

	if got := currentStock(t, db, item.ID); got != 1 {
		t.Errorf("stock must be unchanged after failed adjustment, got %d", got)
	}

	// Hanya entry supply awal yang boleh ada
	var count int64
	db.Model(&models.StockMovement{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 1 {
		t.Errorf("failed adjustment must not write ledger entries, found %d", count)
	}
}

func TestGetItem(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedItem(t, db, "EPP-HELMET", 10, 5, 24)

	stockRepo := NewStockRepository(db)
	item, err := stockRepo.GetItem(seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ItemCode != "EPP-HELMET" || item.CurrentStock != 10 {
		t.Errorf("expected EPP-HELMET with stock 10, got %s with %d", item.ItemCode, item.CurrentStock)
	}

	_, err = stockRepo.GetItem(9999)
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown item, got %v", err)
	}
}

func TestAdjustStock_RejectsUnknownItem(t *testing.T) {
	db := setupTestDB(t)

	stockRepo := NewStockRepository(db)
	_, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   9999,
		Quantity: 5,
		Type:     models.MovementSupplyIn,
		Reason:   "supply",
		Actor:    1,
	})

	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAdjustStock_DirectionMustMatchType(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-BOOTS", 5, 2, 12)

	stockRepo := NewStockRepository(db)
	if _, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: 2,
		Type:     models.MovementDeliveryOut,
		Reason:   "bad sign",
		Actor:    1,
	}); err == nil {
		t.Error("positive quantity with outbound type must be rejected")
	}

	if _, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: -2,
		Type:     models.MovementSupplyIn,
		Reason:   "bad sign",
		Actor:    1,
	}); err == nil {
		t.Error("negative quantity with inbound type must be rejected")
	}
}

func TestLowStockItems(t *testing.T) {
	db := setupTestDB(t)
	seedItem(t, db, "EPP-LOW", 2, 5, 12)
	seedItem(t, db, "EPP-OK", 9, 5, 12)

	stockRepo := NewStockRepository(db)
	items, err := stockRepo.LowStockItems(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 low-stock item, got %d", len(items))
	}
	if items[0].ItemCode != "EPP-LOW" {
		t.Errorf("expected EPP-LOW, got %s", items[0].ItemCode)
	}
}

func TestOutOfStockItems(t *testing.T) {
	db := setupTestDB(t)
	seedItem(t, db, "EPP-EMPTY", 0, 5, 12)
	seedItem(t, db, "EPP-FULL", 9, 5, 12)

	stockRepo := NewStockRepository(db)
	items, err := stockRepo.OutOfStockItems(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 || items[0].ItemCode != "EPP-EMPTY" {
		t.Fatalf("expected only EPP-EMPTY, got %+v", items)
	}
}

func TestReconcile_ConsistentItem(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-CONSISTENT", 7, 2, 12)

	stockRepo := NewStockRepository(db)
	if err := stockRepo.Reconcile(item.ID, 1); err != nil {
		t.Fatalf("consistent item must reconcile cleanly, got %v", err)
	}

	if got := currentStock(t, db, item.ID); got != 7 {
		t.Errorf("reconcile must not change a consistent projection, got %d", got)
	}
}

func TestReconcile_FreezesDriftedItem(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-DRIFT", 7, 2, 12)

	// Simulasi drift: proyeksi diubah di luar jalur ledger
	if err := db.Model(&models.InventoryItem{}).Where("id = ?", item.ID).
		UpdateColumn("current_stock", 11).Error; err != nil {
		t.Fatalf("failed to corrupt projection: %v", err)
	}

	stockRepo := NewStockRepository(db)
	err := stockRepo.Reconcile(item.ID, 1)

	var violation *apperrors.ConsistencyViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ConsistencyViolationError, got %v", err)
	}
	if violation.LedgerBalance != 7 || violation.CurrentStock != 11 {
		t.Errorf("violation should carry both balances, got %+v", violation)
	}

	// Item beku: AdjustStock harus ditolak sampai di-repair
	_, err = stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: 1,
		Type:     models.MovementSupplyIn,
		Reason:   "supply",
		Actor:    1,
	})
	var invalidState *apperrors.InvalidStateError
	if !errors.As(err, &invalidState) {
		t.Fatalf("frozen item must reject adjustments, got %v", err)
	}

	// Repair membangun ulang proyeksi dari ledger dan membuka bekuan
	repaired, err := stockRepo.Repair(item.ID, 1)
	if err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if repaired.CurrentStock != 7 || repaired.IsFrozen {
		t.Errorf("expected stock 7 and unfrozen, got stock=%d frozen=%v", repaired.CurrentStock, repaired.IsFrozen)
	}

	if _, err := stockRepo.AdjustStock(AdjustStockParams{
		ItemID:   item.ID,
		Quantity: 1,
		Type:     models.MovementSupplyIn,
		Reason:   "supply",
		Actor:    1,
	}); err != nil {
		t.Errorf("repaired item must accept adjustments again, got %v", err)
	}

	assertLedgerMatchesStock(t, db, item.ID)
}

func TestMovementHistory_OrderedByCreation(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HIST", 10, 2, 12)

	stockRepo := NewStockRepository(db)
	for _, qty := range []int{-1, -2, 3} {
		movementType := models.MovementDeliveryOut
		if qty > 0 {
			movementType = models.MovementReturnIn
		}
		if _, err := stockRepo.AdjustStock(AdjustStockParams{
			ItemID:   item.ID,
			Quantity: qty,
			Type:     movementType,
			Reason:   "test",
			Actor:    1,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	movements, err := stockRepo.MovementHistory(item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 4 {
		t.Fatalf("expected 4 movements, got %d", len(movements))
	}

	// Replay berurutan harus menyambung: after entry n = before entry n+1
	for i := 1; i < len(movements); i++ {
		if movements[i].StockBefore != movements[i-1].StockAfter {
			t.Errorf("ledger chain broken at entry %d: before=%d, previous after=%d",
				i, movements[i].StockBefore, movements[i-1].StockAfter)
		}
	}

	assertLedgerMatchesStock(t, db, item.ID)
}
