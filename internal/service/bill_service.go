package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billmunshi/internal/analyzer"
	"billmunshi/internal/books"
	"billmunshi/internal/domain"
	"billmunshi/internal/ledger"
	"billmunshi/internal/port"
	"billmunshi/internal/tax"
	"billmunshi/internal/validator"
)

// VerifyLineInput is one operator-corrected line item.
type VerifyLineInput struct {
	ItemName    string           `json:"item_name" binding:"required"`
	ItemDetails string           `json:"item_details"`
	COALedgerID *uuid.UUID       `json:"coa_ledger_id"`
	Price       decimal.Decimal  `json:"price"`
	Quantity    int              `json:"quantity"`
	Amount      decimal.Decimal  `json:"amount"`
	TaxRate     domain.TaxRate   `json:"tax_rate"`
	Side        domain.EntrySide `json:"side"`
}

// VerifyInput is the DTO for bill verification. It carries the full corrected
// header and line set; verification replaces whatever analysis produced.
type VerifyInput struct {
	VendorID   *uuid.UUID        `json:"vendor_id"`
	VendorSide domain.EntrySide  `json:"vendor_side"`
	Voucher    string            `json:"voucher"`
	BillNo     string            `json:"bill_no"`
	BillDate   *time.Time        `json:"bill_date"`
	Total      decimal.Decimal   `json:"total"`
	IGST       decimal.Decimal   `json:"igst"`
	IGSTLedger *uuid.UUID        `json:"igst_ledger"`
	CGST       decimal.Decimal   `json:"cgst"`
	CGSTLedger *uuid.UUID        `json:"cgst_ledger"`
	SGST       decimal.Decimal   `json:"sgst"`
	SGSTLedger *uuid.UUID        `json:"sgst_ledger"`
	Note       string            `json:"note"`
	Lines      []VerifyLineInput `json:"lines" binding:"required"`
}

// BillDetail bundles a bill with its analysed record, when one exists.
type BillDetail struct {
	Bill     *domain.Bill          `json:"bill"`
	Analyzed *domain.AnalyzedBill  `json:"analyzed,omitempty"`
	Lines    []domain.BillLineItem `json:"lines,omitempty"`
}

// BillService orchestrates the bill lifecycle. Each lifecycle operation
// commits its status transition through the repository's compare-and-swap so
// concurrent requests on the same bill resolve to one winner.
type BillService interface {
	CreateFromFile(ctx context.Context, orgID, userID, fileID uuid.UUID, kind domain.BillKind) (*domain.Bill, error)
	Get(ctx context.Context, orgID, billID uuid.UUID) (*BillDetail, error)
	List(ctx context.Context, orgID uuid.UUID, status domain.BillStatus, offset, limit int) ([]domain.Bill, int, error)
	Analyze(ctx context.Context, orgID, billID uuid.UUID) (*BillDetail, error)
	Verify(ctx context.Context, orgID, billID uuid.UUID, input VerifyInput) (*domain.Posting, error)
	Sync(ctx context.Context, orgID, billID uuid.UUID) error
	Posting(ctx context.Context, orgID, billID uuid.UUID) (*domain.Posting, error)
	Checks(ctx context.Context, orgID, billID uuid.UUID) ([]validator.Result, error)
}

type billService struct {
	billRepo     port.BillRepository
	analyzedRepo port.AnalyzedBillRepository
	fileRepo     port.FileMetaRepository
	ledgerRepo   port.LedgerRepository
	storage      port.ObjectStorage
	analyzer     port.BillAnalyzer
	poster       port.JournalPoster
	checks       *validator.Engine
	provider     string
}

// NewBillService creates a new BillService implementation.
func NewBillService(
	billRepo port.BillRepository,
	analyzedRepo port.AnalyzedBillRepository,
	fileRepo port.FileMetaRepository,
	ledgerRepo port.LedgerRepository,
	storage port.ObjectStorage,
	billAnalyzer port.BillAnalyzer,
	poster port.JournalPoster,
	provider string,
) BillService {
	return &billService{
		billRepo:     billRepo,
		analyzedRepo: analyzedRepo,
		fileRepo:     fileRepo,
		ledgerRepo:   ledgerRepo,
		storage:      storage,
		analyzer:     billAnalyzer,
		poster:       poster,
		checks:       validator.NewEngine(),
		provider:     provider,
	}
}

func (s *billService) CreateFromFile(ctx context.Context, orgID, userID, fileID uuid.UUID, kind domain.BillKind) (*domain.Bill, error) {
	if _, err := s.fileRepo.GetByID(ctx, orgID, fileID); err != nil {
		return nil, err
	}

	count, err := s.billRepo.CountByKind(ctx, orgID, kind)
	if err != nil {
		return nil, err
	}

	prefix := "BM-TB"
	if kind == domain.BillKindExpense {
		prefix = "BM-TE"
	}

	bill := &domain.Bill{
		OrgID:     orgID,
		FileID:    fileID,
		Name:      fmt.Sprintf("%s-%d", prefix, count+1),
		Kind:      kind,
		Status:    domain.BillStatusDraft,
		CreatedBy: userID,
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	log.Printf("billService.CreateFromFile: created bill %s (%s) for org %s", bill.Name, bill.ID, orgID)
	return bill, nil
}

func (s *billService) Get(ctx context.Context, orgID, billID uuid.UUID) (*BillDetail, error) {
	bill, err := s.billRepo.GetByID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}
	detail := &BillDetail{Bill: bill}
	analyzed, lines, err := s.analyzedRepo.GetByBillID(ctx, orgID, billID)
	if err == nil {
		detail.Analyzed = analyzed
		detail.Lines = lines
	} else if !errors.Is(err, domain.ErrAnalyzedBillNotFound) {
		return nil, err
	}
	return detail, nil
}

func (s *billService) List(ctx context.Context, orgID uuid.UUID, status domain.BillStatus, offset, limit int) ([]domain.Bill, int, error) {
	return s.billRepo.ListByOrg(ctx, orgID, status, offset, limit)
}

// Analyze runs the document analyzer on a draft bill and records the
// normalized result. The bill status is untouched until everything has been
// persisted, so a failed or timed-out analysis leaves the bill retryable.
func (s *billService) Analyze(ctx context.Context, orgID, billID uuid.UUID) (*BillDetail, error) {
	bill, err := s.billRepo.GetByID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTransition(bill.Status, domain.BillStatusAnalysed); err != nil {
		return nil, err
	}

	meta, err := s.fileRepo.GetByID(ctx, orgID, bill.FileID)
	if err != nil {
		return nil, err
	}
	fileBytes, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading bill file: %w", err)
	}

	out, err := s.analyzer.Analyze(ctx, port.AnalyzeInput{
		FileBytes:   fileBytes,
		ContentType: meta.ContentType,
		Kind:        bill.Kind,
	})
	if err != nil {
		log.Printf("billService.Analyze: analysis failed for bill %s: %v", billID, err)
		return nil, &domain.AnalysisError{Provider: s.provider, Err: err}
	}

	parsed, err := analyzer.Normalize(out.RawData)
	if err != nil {
		return nil, &domain.AnalysisError{Provider: s.provider, Err: err}
	}

	// Classification is best effort here. Inconsistent tax figures from
	// the analyzer degrade to Unknown and get corrected by the operator;
	// strict classification runs again at verification.
	gstType, err := tax.Classify(parsed.IGST, parsed.CGST, parsed.SGST)
	if err != nil {
		log.Printf("billService.Analyze: tax figures inconsistent for bill %s: %v", billID, err)
		gstType = domain.GSTTypeUnknown
	}

	var vendorID *uuid.UUID
	ledgers, err := s.ledgerRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if v := ledger.ResolveVendor(parsed.FromName, ledgers); v != nil {
		vendorID = &v.ID
	}

	analyzed := &domain.AnalyzedBill{
		OrgID:      orgID,
		BillID:     bill.ID,
		VendorID:   vendorID,
		VendorSide: domain.SideCredit,
		Voucher:    bill.Name,
		BillNo:     parsed.BillNumber,
		BillDate:   parsed.DateIssued,
		GSTType:    gstType,
		Total:      parsed.Total,
		IGST:       parsed.IGST,
		CGST:       parsed.CGST,
		SGST:       parsed.SGST,
	}

	items := make([]domain.BillLineItem, 0, len(parsed.Items))
	for _, p := range parsed.Items {
		items = append(items, domain.BillLineItem{
			OrgID:       orgID,
			ItemName:    p.Description,
			ItemDetails: p.Category,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Amount:      p.Amount,
			TaxRate:     domain.TaxRateNA,
			Side:        domain.SideDebit,
		})
	}

	if err := s.billRepo.SetAnalysedData(ctx, orgID, billID, out.RawData); err != nil {
		return nil, err
	}
	if err := s.analyzedRepo.Replace(ctx, analyzed, items); err != nil {
		return nil, err
	}
	if err := s.billRepo.UpdateStatus(ctx, orgID, billID, domain.BillStatusDraft, domain.BillStatusAnalysed); err != nil {
		return nil, err
	}

	bill.Status = domain.BillStatusAnalysed
	return &BillDetail{Bill: bill, Analyzed: analyzed, Lines: items}, nil
}

// Verify applies operator corrections, reruns strict tax classification,
// balances the posting and commits Analysed -> Verified. Any typed failure
// from the classifier or balancer leaves the bill in Analysed.
func (s *billService) Verify(ctx context.Context, orgID, billID uuid.UUID, input VerifyInput) (*domain.Posting, error) {
	bill, err := s.billRepo.GetByID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTransition(bill.Status, domain.BillStatusVerified); err != nil {
		return nil, err
	}

	analyzed, _, err := s.analyzedRepo.GetByBillID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}

	gstType, err := tax.Classify(input.IGST, input.CGST, input.SGST)
	if err != nil {
		return nil, err
	}

	analyzed.VendorID = input.VendorID
	analyzed.VendorSide = input.VendorSide
	if analyzed.VendorSide == "" {
		analyzed.VendorSide = domain.SideCredit
	}
	analyzed.Voucher = input.Voucher
	if analyzed.Voucher == "" {
		analyzed.Voucher = bill.Name
	}
	analyzed.BillNo = input.BillNo
	analyzed.BillDate = input.BillDate
	analyzed.GSTType = gstType
	analyzed.Total = input.Total
	analyzed.IGST = input.IGST
	analyzed.IGSTLedger = input.IGSTLedger
	analyzed.CGST = input.CGST
	analyzed.CGSTLedger = input.CGSTLedger
	analyzed.SGST = input.SGST
	analyzed.SGSTLedger = input.SGSTLedger
	analyzed.Note = input.Note

	items := make([]domain.BillLineItem, 0, len(input.Lines))
	splits := make([]tax.LineSplit, 0, len(input.Lines))
	for _, l := range input.Lines {
		item := domain.BillLineItem{
			OrgID:       orgID,
			ItemName:    l.ItemName,
			ItemDetails: l.ItemDetails,
			COALedgerID: l.COALedgerID,
			Price:       l.Price,
			Quantity:    l.Quantity,
			Amount:      l.Amount,
			TaxRate:     l.TaxRate,
			Side:        l.Side,
		}
		if item.Side == "" {
			item.Side = domain.SideDebit
		}
		if item.TaxRate == "" {
			item.TaxRate = domain.TaxRateNA
		}
		split := tax.SplitLine(item.Amount, item.TaxRate, gstType)
		item.IGST = split.IGST
		item.CGST = split.CGST
		item.SGST = split.SGST
		splits = append(splits, split)
		items = append(items, item)
	}

	// The per-line splits are the authoritative tax figures; the declared
	// header is only a cross-check against them.
	lineSum := tax.Totals(splits)
	if err := tax.Reconcile(tax.LineSplit{IGST: input.IGST, CGST: input.CGST, SGST: input.SGST}, lineSum); err != nil {
		return nil, err
	}

	posting, err := ledger.BuildPosting(bill.Kind, analyzed, items)
	if err != nil {
		return nil, err
	}

	if err := s.analyzedRepo.UpdateHeader(ctx, analyzed); err != nil {
		return nil, err
	}
	if err := s.analyzedRepo.UpdateLines(ctx, analyzed.ID, items); err != nil {
		return nil, err
	}
	if err := s.analyzedRepo.SavePosting(ctx, orgID, analyzed.ID, posting); err != nil {
		return nil, err
	}
	if err := s.billRepo.UpdateStatus(ctx, orgID, billID, domain.BillStatusAnalysed, domain.BillStatusVerified); err != nil {
		return nil, err
	}

	log.Printf("billService.Verify: bill %s verified, posting balances at %s", billID, posting.DebitTotal().StringFixed(2))
	return &posting, nil
}

// Sync renders the stored posting into the cloud journal shape and posts it.
// The transport call happens before the status swap: a timeout or rejection
// leaves the bill Verified and the retry posts the same payload again. The
// swap itself is the serializing point for concurrent sync attempts.
func (s *billService) Sync(ctx context.Context, orgID, billID uuid.UUID) error {
	bill, err := s.billRepo.GetByID(ctx, orgID, billID)
	if err != nil {
		return err
	}
	if err := domain.CheckTransition(bill.Status, domain.BillStatusSynced); err != nil {
		return err
	}

	analyzed, _, err := s.analyzedRepo.GetByBillID(ctx, orgID, billID)
	if err != nil {
		return err
	}
	posting, err := s.analyzedRepo.GetPosting(ctx, orgID, analyzed.ID)
	if err != nil {
		return err
	}

	ledgers, err := s.ledgerRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	accounts := make(map[string]string, len(ledgers))
	for _, l := range ledgers {
		accountID := l.MasterID
		if accountID == "" {
			accountID = l.ID.String()
		}
		accounts[l.ID.String()] = accountID
	}

	journal, err := books.AssembleJournal(analyzed, *posting, accounts)
	if err != nil {
		return err
	}
	payload, err := journal.Encode()
	if err != nil {
		return err
	}

	if err := s.poster.PostJournal(ctx, payload); err != nil {
		log.Printf("billService.Sync: journal post failed for bill %s: %v", billID, err)
		return err
	}

	return s.billRepo.UpdateStatus(ctx, orgID, billID, domain.BillStatusVerified, domain.BillStatusSynced)
}

func (s *billService) Posting(ctx context.Context, orgID, billID uuid.UUID) (*domain.Posting, error) {
	analyzed, _, err := s.analyzedRepo.GetByBillID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}
	return s.analyzedRepo.GetPosting(ctx, orgID, analyzed.ID)
}

// Checks runs the advisory rule set over the analysed record. Findings guide
// the operator's corrections and never gate a transition.
func (s *billService) Checks(ctx context.Context, orgID, billID uuid.UUID) ([]validator.Result, error) {
	analyzed, items, err := s.analyzedRepo.GetByBillID(ctx, orgID, billID)
	if err != nil {
		return nil, err
	}

	var vendor *domain.Ledger
	if analyzed.VendorID != nil {
		if l, err := s.ledgerRepo.GetByID(ctx, orgID, *analyzed.VendorID); err == nil {
			vendor = l
		}
	}

	return s.checks.Run(&validator.Subject{Bill: analyzed, Items: items, Vendor: vendor}), nil
}
