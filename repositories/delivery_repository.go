package repositories

import (
	"epp-app/apperrors"
	"epp-app/controllers/helpers"
	"epp-app/models"
	"epp-app/types"
	"epp-app/utils"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

type DeliveryLineInput struct {
	ItemID   uint   `json:"item_id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
}

type CreateDeliveryInput struct {
	SiteID       uint
	EmployeeID   uint
	DeliveryDate time.Time
	Reason       models.DeliveryReason
	Notes        string
	Actor        int
	Lines        []DeliveryLineInput
}

func generateDeliveryNumberTx(tx *gorm.DB) (string, error) {
	var lastDelivery models.DeliveryHeader

	// Ambil delivery terakhir
	if err := tx.Last(&lastDelivery).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// Ambil tanggal sekarang dalam format YYMMDD
	now := time.Now()
	currentDate := now.Format("060102")

	var deliveryNo string
	if lastDelivery.DeliveryNo != "" && len(lastDelivery.DeliveryNo) >= 12 {
		lastDatePart := lastDelivery.DeliveryNo[2:8]
		lastSequenceStr := lastDelivery.DeliveryNo[len(lastDelivery.DeliveryNo)-4:]

		if currentDate != lastDatePart {
			// Tanggal berubah → reset nomor urut ke 1
			deliveryNo = fmt.Sprintf("DV%s%04d", currentDate, 1)
		} else {
			// Tanggal sama → tambahkan nomor urut
			lastSequenceInt, _ := strconv.Atoi(lastSequenceStr)
			deliveryNo = fmt.Sprintf("DV%s%04d", currentDate, lastSequenceInt+1)
		}
	} else {
		// Tidak ada delivery sebelumnya
		deliveryNo = fmt.Sprintf("DV%s%04d", currentDate, 1)
	}

	return deliveryNo, nil
}

// createDeliveryTx menjalankan seluruh unit logis pembuatan delivery dalam
// transaksi milik caller: header PENDING, potong stok per baris, assignment
// ACTIVE per baris dengan tanggal renewal dari useful life item. Assignment
// ACTIVE lama untuk kombinasi (employee, item, size) yang sama ditandai
// RENEWED di transaksi yang sama.
func createDeliveryTx(tx *gorm.DB, input CreateDeliveryInput) (*models.DeliveryHeader, error) {

	if len(input.Lines) == 0 {
		return nil, errors.New("delivery must have at least one line")
	}

	var employee models.Employee
	if err := tx.First(&employee, input.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "employee", Reference: strconv.Itoa(int(input.EmployeeID))}
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, &apperrors.InvalidStateError{
			Entity:    "employee",
			Reference: employee.EmployeeCode,
			Status:    "INACTIVE",
			Operation: "delivery",
		}
	}

	deliveryNo, err := generateDeliveryNumberTx(tx)
	if err != nil {
		return nil, err
	}

	deliveryDate := input.DeliveryDate
	if deliveryDate.IsZero() {
		deliveryDate = time.Now()
	}

	reason := input.Reason
	if reason == "" {
		reason = models.ReasonStandardIssue
	}

	movementType := models.MovementDeliveryOut
	if reason == models.ReasonRenewal {
		movementType = models.MovementRenewalOut
	}

	header := models.DeliveryHeader{
		DeliveryNo:   deliveryNo,
		SiteID:       input.SiteID,
		EmployeeID:   input.EmployeeID,
		DeliveryDate: deliveryDate,
		Reason:       reason,
		Status:       models.DeliveryPending,
		Notes:        input.Notes,
		CreatedBy:    input.Actor,
		UpdatedBy:    input.Actor,
	}

	if err := tx.Create(&header).Error; err != nil {
		return nil, err
	}

	// Satu kombinasi item+size maksimal satu baris per delivery, supaya
	// mapping baris ke assignment tidak ambigu saat koreksi
	seen := make(map[string]bool, len(input.Lines))

	for _, lineInput := range input.Lines {
		if lineInput.Quantity <= 0 {
			return nil, errors.New("line quantity must be positive")
		}

		key := fmt.Sprintf("%d|%s", lineInput.ItemID, lineInput.Size)
		if seen[key] {
			return nil, errors.New("duplicate item and size in delivery lines")
		}
		seen[key] = true

		var item models.InventoryItem
		if err := tx.First(&item, lineInput.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(lineInput.ItemID))}
			}
			return nil, err
		}
		if !item.IsActive {
			return nil, &apperrors.InvalidStateError{
				Entity:    "item",
				Reference: item.ItemCode,
				Status:    "INACTIVE",
				Operation: "delivery",
			}
		}

		if _, err := AdjustStockTx(tx, AdjustStockParams{
			ItemID:   item.ID,
			Quantity: -lineInput.Quantity,
			Type:     movementType,
			Reason:   string(reason) + " " + deliveryNo,
			Actor:    input.Actor,
			RefType:  models.RefTypeDelivery,
			RefID:    header.ID,
		}); err != nil {
			return nil, err
		}

		line := models.DeliveryLine{
			DeliveryID: header.ID,
			ItemID:     item.ID,
			ItemCode:   item.ItemCode,
			Size:       lineInput.Size,
			Quantity:   lineInput.Quantity,
			CreatedBy:  input.Actor,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, err
		}

		// Pensiunkan assignment ACTIVE lama untuk kombinasi yang sama
		if err := tx.Model(&models.Assignment{}).
			Where("employee_id = ? AND item_id = ? AND size = ? AND status = ?",
				input.EmployeeID, item.ID, lineInput.Size, models.AssignmentActive).
			Updates(map[string]interface{}{
				"status":     models.AssignmentRenewed,
				"updated_by": input.Actor,
			}).Error; err != nil {
			return nil, err
		}

		assignment := models.Assignment{
			EmployeeID:   input.EmployeeID,
			ItemID:       item.ID,
			DeliveryID:   header.ID,
			Quantity:     lineInput.Quantity,
			Size:         lineInput.Size,
			DeliveryDate: deliveryDate,
			RenewalDate:  utils.AddMonths(deliveryDate, item.UsefulLifeMonths),
			Status:       models.AssignmentActive,
			CreatedBy:    input.Actor,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return nil, err
		}

		header.Lines = append(header.Lines, line)
	}

	if err := helpers.InsertTransactionHistory(tx, deliveryNo, string(models.DeliveryPending),
		string(reason), "delivery created", input.Actor); err != nil {
		return nil, err
	}

	return &header, nil
}

// CreateDelivery membuat delivery multi-baris secara all-or-nothing: kalau
// satu baris gagal (misal stok kurang), transaksi di-rollback dan stok baris
// sebelumnya kembali seperti semula.
func (r *DeliveryRepository) CreateDelivery(input CreateDeliveryInput) (*models.DeliveryHeader, error) {

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

	header, err := createDeliveryTx(tx, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return header, nil
}

func loadDeliveryTx(tx *gorm.DB, deliveryID types.SnowflakeID) (*models.DeliveryHeader, error) {
	var header models.DeliveryHeader
	if err := tx.Preload("Lines").First(&header, "id = ?", int64(deliveryID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{
				Entity:    "delivery",
				Reference: strconv.FormatInt(int64(deliveryID), 10),
			}
		}
		return nil, err
	}
	return &header, nil
}

// Cancel membatalkan delivery PENDING: stok setiap baris dikembalikan lewat
// entry RETURN_IN, assignment-nya dihapus, alasan ditempel ke notes.
// Status dicek ulang di dalam transaksi, bukan cuma di pintu masuk.
func (r *DeliveryRepository) Cancel(deliveryID types.SnowflakeID, reason string, actor int) (*models.DeliveryHeader, error) {

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	header, err := loadDeliveryTx(tx, deliveryID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !header.Status.CanCancel() {
		tx.Rollback()
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    string(header.Status),
			Operation: "cancel",
		}
	}

	for _, line := range header.Lines {
		if _, err := AdjustStockTx(tx, AdjustStockParams{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Type:     models.MovementReturnIn,
			Reason:   "delivery cancelled: " + reason,
			Actor:    actor,
			RefType:  models.RefTypeDelivery,
			RefID:    header.ID,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Where("delivery_id = ?", int64(header.ID)).
		Delete(&models.Assignment{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	notes := header.Notes
	if notes != "" {
		notes += " | "
	}
	notes += "cancelled: " + reason

	// Flip status dengan guard, sama seperti update stok: snapshot read di
	// atas bisa basi di bawah REPEATABLE READ, dua cancel bersamaan tidak
	// boleh sama-sama menulis kompensasi
	result := tx.Model(&models.DeliveryHeader{}).
		Where("id = ? AND status = ?", int64(header.ID), models.DeliveryPending).
		Updates(map[string]interface{}{
			"status":     models.DeliveryCancelled,
			"notes":      notes,
			"updated_by": actor,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    "ALREADY_PROCESSED",
			Operation: "cancel",
		}
	}

	if err := helpers.InsertTransactionHistory(tx, header.DeliveryNo, string(models.DeliveryCancelled),
		string(header.Reason), "delivery cancelled: "+reason, actor); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	header.Status = models.DeliveryCancelled
	header.Notes = notes
	return header, nil
}

// RemoveLine mengoreksi satu baris salah input sebelum tanda tangan: stok
// baris itu saja yang dikembalikan, assignment-nya dihapus, baris dibuang.
// Mengembalikan jumlah baris tersisa; kalau nol, caller yang memutuskan
// apakah seluruh delivery dibatalkan.
func (r *DeliveryRepository) RemoveLine(deliveryID types.SnowflakeID, lineID uint, itemID uint, actor int) (int, error) {

	tx := r.db.Begin()
	if tx.Error != nil {
		return 0, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	header, err := loadDeliveryTx(tx, deliveryID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if !header.Status.CanEditLines() {
		tx.Rollback()
		return 0, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    string(header.Status),
			Operation: "remove line",
		}
	}

	var line models.DeliveryLine
	if err := tx.Where("id = ? AND delivery_id = ?", lineID, int64(deliveryID)).
		First(&line).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &apperrors.NotFoundError{
				Entity:    "delivery line",
				Reference: strconv.Itoa(int(lineID)),
			}
		}
		return 0, err
	}

	// Pastikan baris yang dihapus memang item yang dimaksud caller
	if line.ItemID != itemID {
		tx.Rollback()
		return 0, &apperrors.InvalidStateError{
			Entity:    "delivery line",
			Reference: strconv.Itoa(int(lineID)),
			Status:    "ITEM_MISMATCH",
			Operation: "remove line",
		}
	}

	if _, err := AdjustStockTx(tx, AdjustStockParams{
		ItemID:   line.ItemID,
		Quantity: line.Quantity,
		Type:     models.MovementReturnIn,
		Reason:   "line removed from " + header.DeliveryNo,
		Actor:    actor,
		RefType:  models.RefTypeDelivery,
		RefID:    header.ID,
	}); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Where("delivery_id = ? AND item_id = ? AND size = ?",
		int64(header.ID), line.ItemID, line.Size).
		Delete(&models.Assignment{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Delete(&line).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	var remaining int64
	if err := tx.Model(&models.DeliveryLine{}).
		Where("delivery_id = ?", int64(header.ID)).
		Count(&remaining).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := helpers.InsertTransactionHistory(tx, header.DeliveryNo, string(header.Status),
		string(header.Reason), fmt.Sprintf("line %d (%s) removed", lineID, line.ItemCode), actor); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	return int(remaining), nil
}

// Erase menghapus delivery secara permanen untuk koreksi salah input
// operator. Sengaja tidak dibatasi status supaya dokumen yang terlanjur
// SIGNED pun bisa dikoreksi; pembatasan siapa yang boleh memanggil ada di
// layer luar. Semua efek stok dibalik dengan entry CORRECTION_IN.
func (r *DeliveryRepository) Erase(deliveryID types.SnowflakeID, actor int) error {

	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	header, err := loadDeliveryTx(tx, deliveryID)
	if err != nil {
		tx.Rollback()
		return err
	}

	// Delivery CANCELLED sudah dikembalikan stoknya saat cancel, jangan
	// dikompensasi dua kali
	if header.Status != models.DeliveryCancelled {
		for _, line := range header.Lines {
			if _, err := AdjustStockTx(tx, AdjustStockParams{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				Type:     models.MovementCorrectionIn,
				Reason:   "delivery " + header.DeliveryNo + " erased",
				Actor:    actor,
				RefType:  models.RefTypeDelivery,
				RefID:    header.ID,
			}); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Unscoped().Where("delivery_id = ?", int64(header.ID)).
		Delete(&models.Assignment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("delivery_id = ?", int64(header.ID)).
		Delete(&models.DeliveryLine{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Hapus header dengan guard pada status yang kita lihat saat load;
	// kalau sudah berubah (misal baru saja di-cancel oleh request lain),
	// kompensasi di atas salah arah dan seluruh transaksi harus batal
	result := tx.Where("id = ? AND status = ?", int64(header.ID), header.Status).
		Delete(&models.DeliveryHeader{})
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    "ALREADY_PROCESSED",
			Operation: "erase",
		}
	}

	if err := helpers.InsertTransactionHistory(tx, header.DeliveryNo, "ERASED",
		string(header.Reason), "delivery erased", actor); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// SignEmployee menyimpan tanda tangan karyawan. Status tidak berubah di
// sini; dokumen baru jadi SIGNED lewat SignResponsible.
func (r *DeliveryRepository) SignEmployee(deliveryID types.SnowflakeID, signature string, actor int) (*models.DeliveryHeader, error) {

	header, err := loadDeliveryTx(r.db, deliveryID)
	if err != nil {
		return nil, err
	}

	if !header.Status.CanSign() {
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    string(header.Status),
			Operation: "employee signature",
		}
	}

	now := time.Now()
	result := r.db.Model(&models.DeliveryHeader{}).
		Where("id = ? AND status = ?", int64(header.ID), models.DeliveryPending).
		Updates(map[string]interface{}{
			"employee_signature": signature,
			"employee_signed_at": now,
			"updated_by":         actor,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    "ALREADY_PROCESSED",
			Operation: "employee signature",
		}
	}

	header.EmployeeSignature = signature
	header.EmployeeSignedAt = &now
	return header, nil
}

// SignResponsible menyimpan tanda tangan penanggung jawab beserta
// identitasnya dan menutup dokumen jadi SIGNED. Urutan tanda tangan diatur
// oleh UI; core tidak memvalidasi karyawan sudah tanda tangan lebih dulu.
func (r *DeliveryRepository) SignResponsible(deliveryID types.SnowflakeID, signature, name, position string, actor int) (*models.DeliveryHeader, error) {

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	header, err := loadDeliveryTx(tx, deliveryID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !header.Status.CanSign() {
		tx.Rollback()
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    string(header.Status),
			Operation: "responsible signature",
		}
	}

	// Penutupan ke SIGNED juga pakai guard; cancel yang menang duluan
	// membuat update ini kosong dan transaksi batal
	now := time.Now()
	result := tx.Model(&models.DeliveryHeader{}).
		Where("id = ? AND status = ?", int64(header.ID), models.DeliveryPending).
		Updates(map[string]interface{}{
			"responsible_sign":      signature,
			"responsible_name":      name,
			"responsible_position":  position,
			"responsible_signed_at": now,
			"status":                models.DeliverySigned,
			"updated_by":            actor,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, &apperrors.InvalidStateError{
			Entity:    "delivery",
			Reference: header.DeliveryNo,
			Status:    "ALREADY_PROCESSED",
			Operation: "responsible signature",
		}
	}

	if err := helpers.InsertTransactionHistory(tx, header.DeliveryNo, string(models.DeliverySigned),
		string(header.Reason), "delivery signed by "+name, actor); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	header.ResponsibleSign = signature
	header.ResponsibleName = name
	header.ResponsiblePosition = position
	header.ResponsibleSignedAt = &now
	header.Status = models.DeliverySigned
	return header, nil
}

func (r *DeliveryRepository) GetDelivery(deliveryID types.SnowflakeID) (*models.DeliveryHeader, error) {
	return loadDeliveryTx(r.db, deliveryID)
}

type DeliveryList struct {
	ID           types.SnowflakeID `json:"ID"`
	DeliveryNo   string            `json:"delivery_no"`
	DeliveryDate time.Time         `json:"delivery_date"`
	Reason       string            `json:"reason"`
	Status       string            `json:"status"`
	EmployeeCode string            `json:"employee_code"`
	EmployeeName string            `json:"employee_name"`
	TotalLine    int               `json:"total_line"`
	TotalQty     int               `json:"total_qty"`
}

func (r *DeliveryRepository) ListDeliveries(siteID uint) ([]DeliveryList, error) {

	sqlDeliveries := `SELECT d.id, d.delivery_no, d.delivery_date, d.reason, d.status,
	e.employee_code, e.name AS employee_name,
	COUNT(l.id) AS total_line, COALESCE(SUM(l.quantity), 0) AS total_qty
	FROM delivery_headers d
	INNER JOIN employees e ON d.employee_id = e.id
	LEFT JOIN delivery_lines l ON l.delivery_id = d.id
	WHERE d.site_id = ?
	GROUP BY d.id, d.delivery_no, d.delivery_date, d.reason, d.status,
	e.employee_code, e.name
	ORDER BY d.delivery_date DESC, d.id DESC`

	var deliveries []DeliveryList
	if err := r.db.Raw(sqlDeliveries, siteID).Scan(&deliveries).Error; err != nil {
		return nil, err
	}

	return deliveries, nil
}
