package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"billmunshi/internal/bridge"
	"billmunshi/internal/domain"
	"billmunshi/internal/ledger"
	"billmunshi/internal/port"
)

// LedgerService owns the ledger directory and the legacy bridge surface.
type LedgerService interface {
	IngestBridgeLedgers(ctx context.Context, orgID uuid.UUID, payload bridge.LedgerPayload) (int, error)
	List(ctx context.Context, orgID uuid.UUID) ([]domain.Ledger, error)
	ResolveVendor(ctx context.Context, orgID uuid.UUID, name string) (*domain.Ledger, error)
	SyncedVouchers(ctx context.Context, orgID uuid.UUID) (*bridge.SyncedResponse, error)
}

type ledgerService struct {
	ledgerRepo   port.LedgerRepository
	billRepo     port.BillRepository
	analyzedRepo port.AnalyzedBillRepository
}

// NewLedgerService creates a new LedgerService implementation.
func NewLedgerService(
	ledgerRepo port.LedgerRepository,
	billRepo port.BillRepository,
	analyzedRepo port.AnalyzedBillRepository,
) LedgerService {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		billRepo:     billRepo,
		analyzedRepo: analyzedRepo,
	}
}

// IngestBridgeLedgers reconciles the organization's ledger directory with the
// dump pushed by the desktop bridge. Rows already known keep their ids.
func (s *ledgerService) IngestBridgeLedgers(ctx context.Context, orgID uuid.UUID, payload bridge.LedgerPayload) (int, error) {
	ledgers := make([]domain.Ledger, 0, len(payload.Ledger))
	for _, row := range payload.Ledger {
		if row.Name == "" {
			continue
		}
		ledgers = append(ledgers, domain.Ledger{
			Name:           row.Name,
			Parent:         row.Parent,
			Alias:          row.Alias,
			Company:        row.Company,
			GSTIN:          row.GSTIN,
			OpeningBalance: row.OpeningBalance,
			MasterID:       row.MasterID,
		})
	}
	if err := s.ledgerRepo.SyncDirectory(ctx, orgID, ledgers); err != nil {
		return 0, err
	}
	log.Printf("ledgerService.IngestBridgeLedgers: synced %d ledgers for org %s", len(ledgers), orgID)
	return len(ledgers), nil
}

func (s *ledgerService) List(ctx context.Context, orgID uuid.UUID) ([]domain.Ledger, error) {
	return s.ledgerRepo.ListByOrg(ctx, orgID)
}

func (s *ledgerService) ResolveVendor(ctx context.Context, orgID uuid.UUID, name string) (*domain.Ledger, error) {
	ledgers, err := s.ledgerRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ledger.ResolveVendor(name, ledgers), nil
}

// SyncedVouchers renders every synced bill into the bridge DR/CR shape. The
// stored posting is projected as-is; a bill whose posting or ledger names
// cannot be resolved fails the whole pull so the bridge never imports a
// partial batch.
func (s *ledgerService) SyncedVouchers(ctx context.Context, orgID uuid.UUID) (*bridge.SyncedResponse, error) {
	ledgers, err := s.ledgerRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := &bridge.SyncedResponse{Data: []bridge.Voucher{}}
	offset := 0
	const pageSize = 100
	for {
		bills, total, err := s.billRepo.ListByOrg(ctx, orgID, domain.BillStatusSynced, offset, pageSize)
		if err != nil {
			return nil, err
		}
		for _, bill := range bills {
			analyzed, _, err := s.analyzedRepo.GetByBillID(ctx, orgID, bill.ID)
			if err != nil {
				if errors.Is(err, domain.ErrAnalyzedBillNotFound) {
					continue
				}
				return nil, err
			}
			posting, err := s.analyzedRepo.GetPosting(ctx, orgID, analyzed.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, err
			}

			var vendor *domain.Ledger
			if analyzed.VendorID != nil {
				vendor = ledger.FindByID(*analyzed.VendorID, ledgers)
			}
			voucher, err := bridge.RenderVoucher(analyzed, *posting, ledgers, vendor)
			if err != nil {
				return nil, err
			}
			resp.Data = append(resp.Data, *voucher)
		}
		offset += pageSize
		if offset >= total || len(bills) == 0 {
			break
		}
	}
	return resp, nil
}
