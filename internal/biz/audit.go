package biz

import (
	"context"
	"fmt"
	"strconv"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/domain/valueobject"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	summaryKey      = "auditentrysummary"
	recentActivityN = 20
)

// Translator resolves language strings, with or without placeholders.
type Translator interface {
	event.Localizer
	GetStringA(key, component string, a any) (string, error)
}

// AuditTrailUsecase renders stored audit records of a course module.
type AuditTrailUsecase struct {
	logs     domain.LogStore
	cache    domain.ActivityCache
	registry *event.Registry
	strings  Translator
	wwwroot  string
	log      *log.Helper
}

// NewAuditTrailUsecase creates a new AuditTrailUsecase.
func NewAuditTrailUsecase(
	logs domain.LogStore,
	cache domain.ActivityCache,
	registry *event.Registry,
	strings Translator,
	site *conf.Site,
	logger log.Logger,
) *AuditTrailUsecase {
	var wwwroot string
	if site != nil {
		wwwroot = site.WWWRoot
	}
	return &AuditTrailUsecase{
		logs:     logs,
		cache:    cache,
		registry: registry,
		strings:  strings,
		wwwroot:  wwwroot,
		log:      log.NewHelper(logger),
	}
}

// List returns one page of rendered entries of the course module, newest first, and the total count.
func (uc *AuditTrailUsecase) List(ctx context.Context, cmID int64, page, size int) ([]domain.AuditEntry, int, error) {
	cm, err := valueobject.NewID(cmID)
	if err != nil {
		return nil, 0, err
	}
	p, err := valueobject.NewPage(page, size)
	if err != nil {
		return nil, 0, err
	}

	records, total, err := uc.logs.ListByContextInstance(ctx, cm.Int64(), p.Offset(), p.Size())
	if err != nil {
		return nil, 0, err
	}

	entries := make([]domain.AuditEntry, 0, len(records))
	for _, rec := range records {
		entry, err := uc.Render(rec)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// Recent returns the cached latest entries of the course module.
func (uc *AuditTrailUsecase) Recent(ctx context.Context, cmID int64) ([]domain.AuditEntry, error) {
	cm, err := valueobject.NewID(cmID)
	if err != nil {
		return nil, err
	}
	return uc.cache.Recent(ctx, cm.Int64(), recentActivityN)
}

// Render restores the event behind rec and produces its display form.
// String lookup failures are returned unchanged.
func (uc *AuditTrailUsecase) Render(rec event.Record) (domain.AuditEntry, error) {
	e, err := uc.registry.Restore(rec)
	if err != nil {
		return domain.AuditEntry{}, err
	}

	name, err := e.Name(uc.strings)
	if err != nil {
		return domain.AuditEntry{}, err
	}

	summary, err := uc.strings.GetStringA(summaryKey, rec.Component, map[string]any{
		"name":   name,
		"userid": strconv.FormatInt(rec.UserID, 10),
	})
	if err != nil {
		uc.log.Debugf("no summary string for %s: %v", rec.Component, err)
		summary = fmt.Sprintf("%s by user %d", name, rec.UserID)
	}

	return domain.AuditEntry{
		EventID:           rec.EventID,
		EventName:         rec.EventName,
		Name:              name,
		Description:       e.Description(),
		Summary:           summary,
		URL:               e.URL().Out(uc.wwwroot),
		UserID:            rec.UserID,
		ContextInstanceID: rec.ContextInstanceID,
		CRUD:              string(rec.CRUD),
		EduLevel:          int(rec.EduLevel),
		TimeCreated:       rec.TimeCreated,
	}, nil
}
