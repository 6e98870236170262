package repositories

import (
	"epp-app/apperrors"
	"epp-app/models"
	"epp-app/types"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

type AdjustStockParams struct {
	ItemID   uint
	Quantity int // bertanda: negatif = keluar, positif = masuk
	Type     models.MovementType
	Reason   string
	Actor    int
	RefType  string
	RefID    types.SnowflakeID
}

// AdjustStockTx adalah satu-satunya jalur yang boleh mengubah CurrentStock.
// Pengecekan saldo dan update dilakukan dalam satu statement supaya dua
// request yang bersamaan tidak bisa sama-sama lolos cek lalu membuat saldo
// negatif; row lock dari UPDATE bertahan sampai commit transaksi.
func AdjustStockTx(tx *gorm.DB, p AdjustStockParams) (*models.StockMovement, error) {

	if p.Quantity == 0 {
		return nil, errors.New("quantity cannot be zero")
	}
	if !p.Type.Valid() {
		return nil, errors.New("unknown movement type: " + string(p.Type))
	}
	if p.Type.IsOutbound() && p.Quantity > 0 {
		return nil, errors.New("outbound movement must have negative quantity")
	}
	if !p.Type.IsOutbound() && p.Quantity < 0 {
		return nil, errors.New("inbound movement must have positive quantity")
	}

	result := tx.Model(&models.InventoryItem{}).
		Where("id = ? AND is_frozen = ? AND current_stock + ? >= 0", p.ItemID, false, p.Quantity).
		Update("current_stock", gorm.Expr("current_stock + ?", p.Quantity))
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Update gagal, cari tahu kenapa
		var item models.InventoryItem
		if err := tx.First(&item, p.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(p.ItemID))}
			}
			return nil, err
		}
		if item.IsFrozen {
			return nil, &apperrors.InvalidStateError{
				Entity:    "item",
				Reference: item.ItemCode,
				Status:    "FROZEN",
				Operation: "stock adjustment",
			}
		}
		return nil, &apperrors.InsufficientStockError{
			ItemCode:  item.ItemCode,
			Requested: -p.Quantity,
			Available: item.CurrentStock,
		}
	}

	// Baca ulang saldo setelah update, masih dalam transaksi yang sama
	var item models.InventoryItem
	if err := tx.First(&item, p.ItemID).Error; err != nil {
		return nil, err
	}

	quantity := p.Quantity
	if quantity < 0 {
		quantity = -quantity
	}

	movement := models.StockMovement{
		ItemID:      p.ItemID,
		Type:        p.Type,
		Quantity:    quantity,
		StockBefore: item.CurrentStock - p.Quantity,
		StockAfter:  item.CurrentStock,
		Reason:      p.Reason,
		RefType:     p.RefType,
		RefID:       p.RefID,
		CreatedBy:   p.Actor,
	}

	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &movement, nil
}

// AdjustStock membungkus AdjustStockTx dalam satu transaksi sendiri, dipakai
// untuk supply masuk dan koreksi manual.
func (r *StockRepository) AdjustStock(p AdjustStockParams) (*models.StockMovement, error) {

	// Mulai transaksi
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	movement, err := AdjustStockTx(tx, p)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return movement, nil
}

func (r *StockRepository) GetItem(itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(itemID))}
		}
		return nil, err
	}
	return &item, nil
}

type StockStatusList struct {
	ItemID       uint   `json:"item_id"`
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	Category     string `json:"category"`
	Uom          string `json:"uom"`
	CurrentStock int    `json:"current_stock"`
	StockMin     int    `json:"stock_min"`
	StockMax     int    `json:"stock_max"`
	IsFrozen     bool   `json:"is_frozen"`
}

// LowStockItems: item aktif dengan stok di bawah minimum. View turunan,
// dihitung saat dibaca, tidak pernah disimpan terpisah.
func (r *StockRepository) LowStockItems(siteID uint) ([]StockStatusList, error) {

	sqlLowStock := `SELECT id AS item_id, item_code, item_name, category, uom,
	current_stock, stock_min, stock_max, is_frozen
	FROM inventory_items
	WHERE site_id = ? AND is_active = ? AND deleted_at IS NULL
	AND current_stock < stock_min
	ORDER BY item_code ASC`

	var items []StockStatusList
	if err := r.db.Raw(sqlLowStock, siteID, true).Scan(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// OutOfStockItems: item aktif dengan stok habis.
func (r *StockRepository) OutOfStockItems(siteID uint) ([]StockStatusList, error) {

	sqlOutOfStock := `SELECT id AS item_id, item_code, item_name, category, uom,
	current_stock, stock_min, stock_max, is_frozen
	FROM inventory_items
	WHERE site_id = ? AND is_active = ? AND deleted_at IS NULL
	AND current_stock <= 0
	ORDER BY item_code ASC`

	var items []StockStatusList
	if err := r.db.Raw(sqlOutOfStock, siteID, true).Scan(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *StockRepository) MovementHistory(itemID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := r.db.Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ReplayBalance menghitung ulang saldo item dari ledger.
func (r *StockRepository) ReplayBalance(itemID uint) (int, error) {
	return replayBalanceTx(r.db, itemID)
}

func replayBalanceTx(tx *gorm.DB, itemID uint) (int, error) {

	sqlReplay := `SELECT COALESCE(SUM(
		CASE WHEN type IN ('DELIVERY_OUT', 'RENEWAL_OUT') THEN -quantity ELSE quantity END
	), 0) AS balance
	FROM stock_movements
	WHERE item_id = ?`

	var balance int
	if err := tx.Raw(sqlReplay, itemID).Scan(&balance).Error; err != nil {
		return 0, err
	}

	return balance, nil
}

// Reconcile membandingkan hasil replay ledger dengan proyeksi CurrentStock.
// Kalau tidak cocok, item dibekukan dari AdjustStock dan error
// ConsistencyViolation dikembalikan supaya caller bisa eskalasi ke operator.
func (r *StockRepository) Reconcile(itemID uint, actor int) error {

	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var item models.InventoryItem
	if err := tx.First(&item, itemID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(itemID))}
		}
		return err
	}

	balance, err := replayBalanceTx(tx, itemID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if balance == item.CurrentStock {
		tx.Rollback()
		return nil
	}

	// Ledger dan proyeksi tidak cocok: bekukan item sampai di-repair manual
	if err := tx.Model(&item).Updates(map[string]interface{}{
		"is_frozen":  true,
		"updated_by": actor,
	}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	return &apperrors.ConsistencyViolationError{
		ItemCode:      item.ItemCode,
		LedgerBalance: balance,
		CurrentStock:  item.CurrentStock,
	}
}

// Repair membangun ulang CurrentStock dari ledger dan membuka bekuan.
// Ledger adalah sumber kebenaran, proyeksi yang menyesuaikan.
func (r *StockRepository) Repair(itemID uint, actor int) (*models.InventoryItem, error) {

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var item models.InventoryItem
	if err := tx.First(&item, itemID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(itemID))}
		}
		return nil, err
	}

	balance, err := replayBalanceTx(tx, itemID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&item).Updates(map[string]interface{}{
		"current_stock": balance,
		"is_frozen":     false,
		"updated_by":    actor,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	item.CurrentStock = balance
	item.IsFrozen = false
	return &item, nil
}
