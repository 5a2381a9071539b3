package service_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/storage"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func createProformaService(t *testing.T, db *gorm.DB) *service.ProformaService {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	return service.NewProformaService(
		db,
		repository.NewProformaRepository(db),
		repository.NewSaleRepository(db),
		repository.NewClientRepository(db),
		store,
		zap.NewNop(),
	)
}

func newProformaRequest(clientID uint, projectName string, status domain.ProformaStatus) *domain.CreateProformaRequest {
	amount := decimal.RequireFromString("125000.50")
	return &domain.CreateProformaRequest{
		ClientID:     clientID,
		ProjectName:  projectName,
		ProformaDate: "2024-03-01",
		ValidUntil:   "2024-04-01",
		Description:  "Two passenger lifts",
		TotalAmount:  &amount,
		Status:       status,
	}
}

func countSalesFor(t *testing.T, db *gorm.DB, proformaID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.Sale{}).Where("proforma_id = ?", proformaID).Count(&count).Error)
	return count
}

func statusPtr(s domain.ProformaStatus) *domain.ProformaStatus {
	return &s
}

func TestProformaService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Fjord Bygg AS")

	t.Run("pending proforma creates no sale", func(t *testing.T) {
		proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Pending Tower", domain.ProformaStatusPending))
		require.NoError(t, err)
		assert.Equal(t, domain.ProformaStatusPending, proforma.Status)
		assert.False(t, proforma.IsConvertedToSale)
		assert.Nil(t, proforma.SaleID)
		assert.Equal(t, int64(0), countSalesFor(t, db, proforma.ID))
	})

	t.Run("empty status defaults to pending", func(t *testing.T) {
		proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Default Status", ""))
		require.NoError(t, err)
		assert.Equal(t, domain.ProformaStatusPending, proforma.Status)
	})

	t.Run("accepted proforma is converted on create", func(t *testing.T) {
		proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Accepted Tower", domain.ProformaStatusAccepted))
		require.NoError(t, err)
		assert.True(t, proforma.IsConvertedToSale)
		require.NotNil(t, proforma.SaleID)
		assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))

		var sale domain.Sale
		require.NoError(t, db.First(&sale, *proforma.SaleID).Error)
		assert.Equal(t, client.ID, sale.ClientID)
		assert.True(t, decimal.RequireFromString("125000.50").Equal(sale.Price))
		assert.False(t, sale.Paid)
	})

	t.Run("duplicate project name conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, newProformaRequest(client.ID, "Pending Tower", domain.ProformaStatusPending))
		assert.ErrorIs(t, err, service.ErrDuplicateProformaName)
	})

	t.Run("valid until before proforma date is rejected", func(t *testing.T) {
		req := newProformaRequest(client.ID, "Backwards", domain.ProformaStatusPending)
		req.ValidUntil = "2024-02-01"
		_, err := svc.Create(ctx, req)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "validUntil")
	})

	t.Run("unknown client is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, newProformaRequest(client.ID+100, "Orphan", domain.ProformaStatusPending))
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "clientId")
	})
}

func TestProformaService_Update_ConvertsOnlyOnTransitionIntoAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Nordlys Eiendom")

	proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Harbour Lifts", domain.ProformaStatusPending))
	require.NoError(t, err)

	accepted, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
	require.NoError(t, err)
	assert.True(t, accepted.IsConvertedToSale)
	require.NotNil(t, accepted.SaleID)
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))

	// Writing Accepted again is not a transition
	again, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
	require.NoError(t, err)
	assert.Equal(t, *accepted.SaleID, *again.SaleID)
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))

	// Neither is an unrelated edit of an accepted proforma
	description := "Updated scope"
	_, err = svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))
}

func TestProformaService_Update_ReacceptKeepsExistingSale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Vestland Bolig")

	proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Re-accept", domain.ProformaStatusAccepted))
	require.NoError(t, err)
	require.NotNil(t, proforma.SaleID)

	_, err = svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusRejected)})
	require.NoError(t, err)

	reaccepted, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
	require.NoError(t, err)
	require.NotNil(t, reaccepted.SaleID)
	assert.Equal(t, *proforma.SaleID, *reaccepted.SaleID)
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))
}

func TestProformaService_Update_ConcurrentAcceptCreatesOneSale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Concurrent AS")

	proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Race", domain.ProformaStatusPending))
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))

	stored, err := svc.GetByID(ctx, proforma.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConvertedToSale)
}

func TestProformaService_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)

	_, err := svc.Update(context.Background(), 999, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
	assert.ErrorIs(t, err, service.ErrProformaNotFound)
}

func TestProformaService_Attachment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Attachments AS")

	proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "With Drawing", domain.ProformaStatusPending))
	require.NoError(t, err)

	t.Run("missing attachment is not found", func(t *testing.T) {
		_, _, err := svc.DownloadAttachment(ctx, proforma.ID)
		assert.ErrorIs(t, err, service.ErrAttachmentNotFound)
	})

	t.Run("non-pdf upload is rejected", func(t *testing.T) {
		_, err := svc.UploadAttachment(ctx, proforma.ID, "notes.txt", "text/plain", strings.NewReader("hello"))
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	uploaded, err := svc.UploadAttachment(ctx, proforma.ID, "drawing.pdf", "application/pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NotEmpty(t, uploaded.TechnicalDetailsPDF)

	t.Run("update without attachment keeps the stored one", func(t *testing.T) {
		empty := ""
		description := "Revised"
		updated, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{
			Description:         &description,
			TechnicalDetailsPDF: &empty,
		})
		require.NoError(t, err)
		assert.Equal(t, uploaded.TechnicalDetailsPDF, updated.TechnicalDetailsPDF)
		assert.Equal(t, "Revised", updated.Description)
	})

	t.Run("download returns the stored bytes", func(t *testing.T) {
		reader, filename, err := svc.DownloadAttachment(ctx, proforma.ID)
		require.NoError(t, err)
		defer reader.Close()

		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 test", string(body))
		assert.True(t, strings.HasSuffix(filename, ".pdf"))
	})
}

func TestProformaService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Delete AS")

	pending, err := svc.Create(ctx, newProformaRequest(client.ID, "Draft", domain.ProformaStatusPending))
	require.NoError(t, err)
	accepted, err := svc.Create(ctx, newProformaRequest(client.ID, "Signed", domain.ProformaStatusAccepted))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, pending.ID))
	_, err = svc.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, service.ErrProformaNotFound)

	err = svc.Delete(ctx, accepted.ID)
	assert.ErrorIs(t, err, service.ErrProformaHasSale)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestProformaService_RenderPDF(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Print AS")

	proforma, err := svc.Create(ctx, newProformaRequest(client.ID, "Printable", domain.ProformaStatusAccepted))
	require.NoError(t, err)

	doc, filename, err := svc.RenderPDF(ctx, proforma.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF"))
	assert.Contains(t, filename, ".pdf")
}

func TestProformaService_AttachmentReferenceComesOnlyFromUpload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProformaService(t, db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Shared Drawings AS")

	owner, err := svc.Create(ctx, newProformaRequest(client.ID, "Owner", domain.ProformaStatusPending))
	require.NoError(t, err)
	owner, err = svc.UploadAttachment(ctx, owner.ID, "owner.pdf", "application/pdf", strings.NewReader("%PDF-1.4 owner"))
	require.NoError(t, err)
	require.NotEmpty(t, owner.TechnicalDetailsPDF)

	other, err := svc.Create(ctx, newProformaRequest(client.ID, "Other", domain.ProformaStatusPending))
	require.NoError(t, err)

	t.Run("foreign reference is rejected", func(t *testing.T) {
		foreign := owner.TechnicalDetailsPDF
		_, err := svc.Update(ctx, other.ID, &domain.UpdateProformaRequest{TechnicalDetailsPDF: &foreign})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "technicalDetailsPdf")

		stored, err := svc.GetByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.TechnicalDetailsPDF)
	})

	t.Run("echoing the stored reference is accepted", func(t *testing.T) {
		same := owner.TechnicalDetailsPDF
		updated, err := svc.Update(ctx, owner.ID, &domain.UpdateProformaRequest{TechnicalDetailsPDF: &same})
		require.NoError(t, err)
		assert.Equal(t, owner.TechnicalDetailsPDF, updated.TechnicalDetailsPDF)
	})

	t.Run("deleting another proforma leaves the document in place", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, other.ID))

		reader, _, err := svc.DownloadAttachment(ctx, owner.ID)
		require.NoError(t, err)
		defer reader.Close()
		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 owner", string(body))
	})
}

// insertCompetingSale makes the next sale insert lose to a sale written just
// before it in the same transaction, after the existence check has passed.
func insertCompetingSale(t *testing.T, db *gorm.DB, proforma *domain.Proforma) *domain.Sale {
	t.Helper()
	competing := &domain.Sale{
		ProformaID: &proforma.ID,
		ClientID:   proforma.ClientID,
		Price:      decimal.NewFromInt(1),
	}
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:competing_sale", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "sales" {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Omit(clause.Associations).Create(competing).Error; err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
	return competing
}

func TestProformaService_Update_LostInsertRaceUsesExistingSale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewProformaService(
		db,
		repository.NewProformaRepository(db),
		repository.NewSaleRepository(db),
		repository.NewClientRepository(db),
		store,
		zap.New(core),
	)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Lost Race AS")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Contended", domain.ProformaStatusPending)

	competing := insertCompetingSale(t, db, proforma)

	accepted, err := svc.Update(ctx, proforma.ID, &domain.UpdateProformaRequest{Status: statusPtr(domain.ProformaStatusAccepted)})
	require.NoError(t, err)
	require.NotZero(t, competing.ID)
	require.NotNil(t, accepted.SaleID)
	assert.Equal(t, competing.ID, *accepted.SaleID)
	assert.True(t, accepted.IsConvertedToSale)
	assert.Equal(t, int64(1), countSalesFor(t, db, proforma.ID))
	assert.Equal(t, 1, logs.FilterMessage("sale conversion lost race, using existing sale").Len())
	assert.Zero(t, logs.FilterMessage("sale created from proforma").Len())
}
