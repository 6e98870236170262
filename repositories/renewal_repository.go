package repositories

import (
	"epp-app/apperrors"
	"epp-app/config"
	"epp-app/models"
	"epp-app/utils"
	"errors"
	"strconv"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type RenewalRepository struct {
	db *gorm.DB
}

func NewRenewalRepository(db *gorm.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

// Bucket urgensi renewal, dihitung dari sisa hari kalender.
const (
	UrgencyOverdue = "OVERDUE"
	UrgencyDueSoon = "DUE_SOON"
	UrgencyCurrent = "CURRENT"
)

type PendingRenewal struct {
	AssignmentID  uint      `json:"assignment_id"`
	EmployeeID    uint      `json:"employee_id"`
	EmployeeCode  string    `json:"employee_code"`
	EmployeeName  string    `json:"employee_name"`
	ItemID        uint      `json:"item_id"`
	ItemCode      string    `json:"item_code"`
	ItemName      string    `json:"item_name"`
	Size          string    `json:"size"`
	Quantity      int       `json:"quantity"`
	CurrentStock  int       `json:"current_stock"`
	DeliveryDate  time.Time `json:"delivery_date"`
	RenewalDate   time.Time `json:"renewal_date"`
	DaysRemaining int       `json:"days_remaining"`
	Urgency       string    `json:"urgency"`
}

// ListPendingRenewals mengembalikan assignment ACTIVE yang jatuh tempo dalam
// horizonDays ke depan, termasuk yang sudah lewat. Sisa hari dihitung per
// tanggal kalender, bukan per 24 jam.
func (r *RenewalRepository) ListPendingRenewals(siteID uint, horizonDays int) ([]PendingRenewal, error) {

	if horizonDays <= 0 {
		horizonDays = config.RenewalHorizonDays
	}

	today := utils.TruncateToDay(time.Now())
	horizon := today.AddDate(0, 0, horizonDays)

	sqlPending := `SELECT a.id AS assignment_id, a.employee_id, e.employee_code,
	e.name AS employee_name, a.item_id, i.item_code, i.item_name, a.size,
	a.quantity, i.current_stock, a.delivery_date, a.renewal_date
	FROM assignments a
	INNER JOIN employees e ON a.employee_id = e.id
	INNER JOIN inventory_items i ON a.item_id = i.id
	WHERE a.status = ? AND a.deleted_at IS NULL
	AND e.site_id = ? AND e.is_active = ?
	AND a.renewal_date <= ?`

	var pending []PendingRenewal
	if err := r.db.Raw(sqlPending, models.AssignmentActive, siteID, true, horizon).
		Scan(&pending).Error; err != nil {
		return nil, err
	}

	for i := range pending {
		days := utils.DaysUntil(today, pending[i].RenewalDate)
		pending[i].DaysRemaining = days
		switch {
		case days < 0:
			pending[i].Urgency = UrgencyOverdue
		case days <= config.RenewalDueSoonDays:
			pending[i].Urgency = UrgencyDueSoon
		default:
			pending[i].Urgency = UrgencyCurrent
		}
	}

	// Paling mendesak duluan, lalu dikelompokkan per karyawan untuk tampilan
	slices.SortStableFunc(pending, func(a, b PendingRenewal) int {
		if !a.RenewalDate.Equal(b.RenewalDate) {
			if a.RenewalDate.Before(b.RenewalDate) {
				return -1
			}
			return 1
		}
		if a.EmployeeCode < b.EmployeeCode {
			return -1
		}
		if a.EmployeeCode > b.EmployeeCode {
			return 1
		}
		return 0
	})

	return pending, nil
}

// RenewForEmployee mengganti assignment terpilih dengan delivery renewal
// baru. Stok semua item dicek dulu sebelum ada tulisan apapun; satu item
// kurang berarti seluruh batch batal (all-or-nothing per karyawan).
func (r *RenewalRepository) RenewForEmployee(employeeID uint, assignmentIDs []uint, actor int) (*models.DeliveryHeader, error) {

	if len(assignmentIDs) == 0 {
		return nil, errors.New("no assignments selected for renewal")
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var employee models.Employee
	if err := tx.First(&employee, employeeID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "employee", Reference: strconv.Itoa(int(employeeID))}
		}
		return nil, err
	}

	// Muat dan validasi assignment satu per satu, status dicek di dalam
	// transaksi yang sama dengan mutasinya
	assignments := make([]models.Assignment, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		var assignment models.Assignment
		if err := tx.First(&assignment, id).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperrors.NotFoundError{Entity: "assignment", Reference: strconv.Itoa(int(id))}
			}
			return nil, err
		}
		if assignment.EmployeeID != employeeID {
			tx.Rollback()
			return nil, &apperrors.InvalidStateError{
				Entity:    "assignment",
				Reference: strconv.Itoa(int(id)),
				Status:    "OTHER_EMPLOYEE",
				Operation: "renewal",
			}
		}
		if !assignment.Status.CanRenew() {
			tx.Rollback()
			return nil, &apperrors.InvalidStateError{
				Entity:    "assignment",
				Reference: strconv.Itoa(int(id)),
				Status:    string(assignment.Status),
				Operation: "renewal",
			}
		}

		// Klaim assignment dengan guard status; dari dua renewal bersamaan
		// pada assignment yang sama hanya satu yang boleh menang
		claim := tx.Model(&models.Assignment{}).
			Where("id = ? AND status = ?", assignment.ID, models.AssignmentActive).
			Updates(map[string]interface{}{
				"status":     models.AssignmentRenewed,
				"updated_by": actor,
			})
		if claim.Error != nil {
			tx.Rollback()
			return nil, claim.Error
		}
		if claim.RowsAffected == 0 {
			tx.Rollback()
			return nil, &apperrors.InvalidStateError{
				Entity:    "assignment",
				Reference: strconv.Itoa(int(id)),
				Status:    "ALREADY_PROCESSED",
				Operation: "renewal",
			}
		}
		assignments = append(assignments, assignment)
	}

	// Pre-check stok untuk seluruh batch sebelum ada tulisan
	for _, assignment := range assignments {
		var item models.InventoryItem
		if err := tx.First(&item, assignment.ItemID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperrors.NotFoundError{Entity: "item", Reference: strconv.Itoa(int(assignment.ItemID))}
			}
			return nil, err
		}
		if item.CurrentStock < assignment.Quantity {
			tx.Rollback()
			return nil, &apperrors.InsufficientStockError{
				ItemCode:  item.ItemCode,
				Requested: assignment.Quantity,
				Available: item.CurrentStock,
			}
		}
	}

	lines := make([]DeliveryLineInput, 0, len(assignments))
	for _, assignment := range assignments {
		lines = append(lines, DeliveryLineInput{
			ItemID:   assignment.ItemID,
			Quantity: assignment.Quantity,
			Size:     assignment.Size,
		})
	}

	// Jalur pembuatan yang sama dengan delivery biasa; assignment lama
	// ditandai RENEWED di transaksi yang sama dengan pembuatan yang baru
	header, err := createDeliveryTx(tx, CreateDeliveryInput{
		SiteID:     employee.SiteID,
		EmployeeID: employeeID,
		Reason:     models.ReasonRenewal,
		Actor:      actor,
		Lines:      lines,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return header, nil
}
