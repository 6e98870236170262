package repositories

import (
	"epp-app/apperrors"
	"epp-app/models"
	"errors"
	"testing"
	"time"
)

func TestRenewForEmployee_SupersedesAssignment(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 7, 2, 12)
	employee := seedEmployee(t, db, "EMP-0001")

	// Delivery awal setahun lalu, supaya tanggal renewal pengganti jelas
	// lebih baru dari yang lama
	deliveryRepo := NewDeliveryRepository(db)
	first, err := deliveryRepo.CreateDelivery(CreateDeliveryInput{
		SiteID:       1,
		EmployeeID:   employee.ID,
		DeliveryDate: time.Now().AddDate(-1, 0, 0),
		Actor:        1,
		Lines:        []DeliveryLineInput{{ItemID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := currentStock(t, db, item.ID); got != 5 {
		t.Fatalf("expected stock 5 before renewal, got %d", got)
	}

	var old models.Assignment
	if err := db.Where("delivery_id = ?", int64(first.ID)).First(&old).Error; err != nil {
		t.Fatalf("missing initial assignment: %v", err)
	}

	renewalRepo := NewRenewalRepository(db)
	renewal, err := renewalRepo.RenewForEmployee(employee.ID, []uint{old.ID}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if renewal.Reason != models.ReasonRenewal {
		t.Errorf("renewal delivery must carry RENEWAL reason, got %s", renewal.Reason)
	}
	if got := currentStock(t, db, item.ID); got != 3 {
		t.Errorf("expected stock 3 after renewal, got %d", got)
	}

	// Assignment lama pensiun, penggantinya ACTIVE dengan tanggal renewal baru
	db.First(&old, old.ID)
	if old.Status != models.AssignmentRenewed {
		t.Errorf("old assignment must be RENEWED, got %s", old.Status)
	}

	var replacement models.Assignment
	if err := db.Where("delivery_id = ?", int64(renewal.ID)).First(&replacement).Error; err != nil {
		t.Fatalf("missing replacement assignment: %v", err)
	}
	if replacement.Status != models.AssignmentActive {
		t.Errorf("replacement must be ACTIVE, got %s", replacement.Status)
	}
	if !replacement.RenewalDate.After(old.RenewalDate) {
		t.Errorf("replacement renewal date %v must be after old %v",
			replacement.RenewalDate, old.RenewalDate)
	}

	// Tepat satu entry RENEWAL_OUT, menyambung dari saldo 5 ke 3
	var movements []models.StockMovement
	db.Where("item_id = ? AND type = ?", item.ID, models.MovementRenewalOut).Find(&movements)
	if len(movements) != 1 {
		t.Fatalf("expected exactly 1 RENEWAL_OUT movement, got %d", len(movements))
	}
	if movements[0].StockBefore != 5 || movements[0].StockAfter != 3 {
		t.Errorf("expected before=5 after=3, got before=%d after=%d",
			movements[0].StockBefore, movements[0].StockAfter)
	}

	assertLedgerMatchesStock(t, db, item.ID)
}

func TestRenewForEmployee_InsufficientStockAbortsBatch(t *testing.T) {
	db := setupTestDB(t)
	itemA := seedItem(t, db, "EPP-A", 10, 2, 12)
	itemB := seedItem(t, db, "EPP-B", 5, 2, 12)
	employee := seedEmployee(t, db, "EMP-0001")

	deliveryRepo := NewDeliveryRepository(db)
	first, err := deliveryRepo.CreateDelivery(CreateDeliveryInput{
		SiteID:     1,
		EmployeeID: employee.ID,
		Actor:      1,
		Lines: []DeliveryLineInput{
			{ItemID: itemA.ID, Quantity: 2},
			{ItemID: itemB.ID, Quantity: 5}, // menghabiskan stok B
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var assignments []models.Assignment
	if err := db.Where("delivery_id = ?", int64(first.ID)).Find(&assignments).Error; err != nil || len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d (err %v)", len(assignments), err)
	}
	ids := []uint{assignments[0].ID, assignments[1].ID}

	renewalRepo := NewRenewalRepository(db)
	_, err = renewalRepo.RenewForEmployee(employee.ID, ids, 1)

	var insufficient *apperrors.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ItemCode != "EPP-B" {
		t.Errorf("error must name the offending item, got %s", insufficient.ItemCode)
	}

	// Seluruh batch batal: stok tidak berubah, semua assignment tetap ACTIVE
	if got := currentStock(t, db, itemA.ID); got != 8 {
		t.Errorf("item A stock must be untouched, got %d", got)
	}
	if got := currentStock(t, db, itemB.ID); got != 0 {
		t.Errorf("item B stock must be untouched, got %d", got)
	}
	for _, id := range ids {
		var assignment models.Assignment
		db.First(&assignment, id)
		if assignment.Status != models.AssignmentActive {
			t.Errorf("assignment %d must stay ACTIVE after aborted batch, got %s", id, assignment.Status)
		}
	}

	var headers int64
	db.Model(&models.DeliveryHeader{}).Where("reason = ?", models.ReasonRenewal).Count(&headers)
	if headers != 0 {
		t.Errorf("aborted batch must not leave a renewal delivery, found %d", headers)
	}

	assertLedgerMatchesStock(t, db, itemA.ID)
	assertLedgerMatchesStock(t, db, itemB.ID)
}

func TestRenewForEmployee_RejectsOtherEmployeesAssignment(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 10, 2, 12)
	owner := seedEmployee(t, db, "EMP-0001")
	other := seedEmployee(t, db, "EMP-0002")

	deliveryRepo := NewDeliveryRepository(db)
	header, err := deliveryRepo.CreateDelivery(CreateDeliveryInput{
		SiteID:     1,
		EmployeeID: owner.ID,
		Actor:      1,
		Lines:      []DeliveryLineInput{{ItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var assignment models.Assignment
	db.Where("delivery_id = ?", int64(header.ID)).First(&assignment)

	renewalRepo := NewRenewalRepository(db)
	_, err = renewalRepo.RenewForEmployee(other.ID, []uint{assignment.ID}, 1)

	var invalidState *apperrors.InvalidStateError
	if !errors.As(err, &invalidState) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if invalidState.Status != "OTHER_EMPLOYEE" {
		t.Errorf("expected OTHER_EMPLOYEE, got %s", invalidState.Status)
	}
}

func TestRenewForEmployee_RejectsAlreadyRenewed(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 10, 2, 12)
	employee := seedEmployee(t, db, "EMP-0001")

	deliveryRepo := NewDeliveryRepository(db)
	header, err := deliveryRepo.CreateDelivery(CreateDeliveryInput{
		SiteID:     1,
		EmployeeID: employee.ID,
		Actor:      1,
		Lines:      []DeliveryLineInput{{ItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var assignment models.Assignment
	db.Where("delivery_id = ?", int64(header.ID)).First(&assignment)

	renewalRepo := NewRenewalRepository(db)
	if _, err := renewalRepo.RenewForEmployee(employee.ID, []uint{assignment.ID}, 1); err != nil {
		t.Fatalf("first renewal failed: %v", err)
	}

	// Assignment yang sama tidak boleh di-renew dua kali
	_, err = renewalRepo.RenewForEmployee(employee.ID, []uint{assignment.ID}, 1)
	var invalidState *apperrors.InvalidStateError
	if !errors.As(err, &invalidState) {
		t.Fatalf("expected InvalidStateError for RENEWED assignment, got %v", err)
	}
}

func TestListPendingRenewals_UrgencyBuckets(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 50, 2, 12)
	employee := seedEmployee(t, db, "EMP-0001")

	today := time.Now()
	seedAssignment := func(renewalDate time.Time) {
		t.Helper()
		assignment := models.Assignment{
			EmployeeID:   employee.ID,
			ItemID:       item.ID,
			Quantity:     1,
			DeliveryDate: renewalDate.AddDate(-1, 0, 0),
			RenewalDate:  renewalDate,
			Status:       models.AssignmentActive,
			CreatedBy:    1,
		}
		if err := db.Create(&assignment).Error; err != nil {
			t.Fatalf("failed to seed assignment: %v", err)
		}
	}

	// Jauh dari batas bucket supaya tidak goyah di tengah malam
	seedAssignment(today.AddDate(0, 0, -10)) // OVERDUE
	seedAssignment(today.AddDate(0, 0, 10))  // DUE_SOON
	seedAssignment(today.AddDate(0, 0, 50))  // CURRENT
	seedAssignment(today.AddDate(0, 0, 100)) // di luar horizon

	renewalRepo := NewRenewalRepository(db)
	pending, err := renewalRepo.ListPendingRenewals(1, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pending) != 3 {
		t.Fatalf("expected 3 pending renewals within horizon, got %d", len(pending))
	}

	// Diurutkan paling mendesak duluan
	wantUrgency := []string{UrgencyOverdue, UrgencyDueSoon, UrgencyCurrent}
	for i, want := range wantUrgency {
		if pending[i].Urgency != want {
			t.Errorf("entry %d: expected urgency %s, got %s", i, want, pending[i].Urgency)
		}
	}

	if pending[0].DaysRemaining >= 0 {
		t.Errorf("overdue entry must have negative days remaining, got %d", pending[0].DaysRemaining)
	}
	if pending[1].DaysRemaining < 0 || pending[1].DaysRemaining > 30 {
		t.Errorf("due-soon entry must be within 0..30 days, got %d", pending[1].DaysRemaining)
	}
}

func TestListPendingRenewals_SkipsInactiveEmployees(t *testing.T) {
	db := setupTestDB(t)
	item := seedItem(t, db, "EPP-HELMET", 50, 2, 12)
	active := seedEmployee(t, db, "EMP-ACTIVE")
	inactive := seedEmployee(t, db, "EMP-GONE")
	db.Model(inactive).Update("is_active", false)

	today := time.Now()
	for _, employeeID := range []uint{active.ID, inactive.ID} {
		assignment := models.Assignment{
			EmployeeID:   employeeID,
			ItemID:       item.ID,
			Quantity:     1,
			DeliveryDate: today.AddDate(-1, 0, 0),
			RenewalDate:  today.AddDate(0, 0, 5),
			Status:       models.AssignmentActive,
			CreatedBy:    1,
		}
		if err := db.Create(&assignment).Error; err != nil {
			t.Fatalf("failed to seed assignment: %v", err)
		}
	}

	renewalRepo := NewRenewalRepository(db)
	pending, err := renewalRepo.ListPendingRenewals(1, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pending) != 1 {
		t.Fatalf("expected only the active employee's assignment, got %d", len(pending))
	}
	if pending[0].EmployeeCode != "EMP-ACTIVE" {
		t.Errorf("expected EMP-ACTIVE, got %s", pending[0].EmployeeCode)
	}
}
