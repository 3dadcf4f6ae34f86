package fiscal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// UseCase casos de uso del ciclo fiscal: años, trimestres, modelos 303/130/390 y cierres.
type UseCase struct {
	stores Stores
	tx     TxRunner
	source RecordSource
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso. stores son los repos sobre el pool (lecturas).
func NewUseCase(stores Stores, tx TxRunner, source RecordSource, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{stores: stores, tx: tx, source: source, log: log, now: time.Now}
}

// WithClock sustituye el reloj (fecha de cierre, timestamps).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateFiscalYear crea el año fiscal y sus 4 trimestres en la misma transacción.
func (uc *UseCase) CreateFiscalYear(ctx context.Context, businessID string, in dto.CreateFiscalYearRequest) (*dto.FiscalYearResponse, error) {
	est := entity.EstimationType(in.EstimationType)
	if est == "" {
		est = entity.EstimationSimplified
	}
	if !est.IsValid() || in.Year < 2000 || in.Year > 2100 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	fy := &entity.FiscalYear{
		BusinessID:     businessID,
		Year:           in.Year,
		EstimationType: est,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var quarters []*entity.Quarter
	err := uc.tx.RunFiscal(ctx, func(s Stores) error {
		existing, err := s.FiscalYears.GetByBusinessAndYear(ctx, businessID, in.Year)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := s.FiscalYears.Create(ctx, fy); err != nil {
			return err
		}
		quarters, err = ensureQuarters(ctx, s, fy)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForQuarter(businessID, fy.Year, 0).Info().Msg("año fiscal creado")
	out := toFiscalYearResponse(fy, quarters)
	return &out, nil
}

// EnsureQuarters crea los trimestres que falten del año (idempotente).
func (uc *UseCase) EnsureQuarters(ctx context.Context, businessID string, year int) ([]dto.QuarterResponse, error) {
	var fy *entity.FiscalYear
	var quarters []*entity.Quarter
	err := uc.tx.RunFiscal(ctx, func(s Stores) error {
		var err error
		if fy, err = loadYear(ctx, s, businessID, year); err != nil {
			return err
		}
		quarters, err = ensureQuarters(ctx, s, fy)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuarterResponse, 0, len(quarters))
	for _, q := range quarters {
		out = append(out, toQuarterResponse(fy, q, nil))
	}
	return out, nil
}

// ListFiscalYears años fiscales de la empresa, del más reciente al más antiguo.
func (uc *UseCase) ListFiscalYears(ctx context.Context, businessID string) ([]dto.FiscalYearResponse, error) {
	years, err := uc.stores.FiscalYears.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FiscalYearResponse, 0, len(years))
	for _, fy := range years {
		quarters, err := uc.stores.Quarters.ListByFiscalYear(ctx, fy.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toFiscalYearResponse(fy, quarters))
	}
	return out, nil
}

// GetFiscalYear año fiscal con sus trimestres, resultados guardados y el 390.
func (uc *UseCase) GetFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearDetailResponse, error) {
	fy, err := loadYear(ctx, uc.stores, businessID, year)
	if err != nil {
		return nil, err
	}
	quarters, err := uc.stores.Quarters.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return nil, err
	}
	results, err := uc.stores.Results.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return nil, err
	}
	records, err := uc.records(ctx, fy, quarters, len(domfiscal.QuarterNumbers))
	if err != nil {
		return nil, err
	}

	out := &dto.FiscalYearDetailResponse{
		FiscalYearResponse: toFiscalYearResponse(fy, quarters),
		Quarters:           make([]dto.QuarterResponse, 0, len(quarters)),
		Modelo390:          toModelo390Response(fy.Year, domfiscal.CalculateModelo390(records)),
	}
	for _, q := range quarters {
		out.Quarters = append(out.Quarters, toQuarterResponse(fy, q, results[q.Number]))
	}
	return out, nil
}

// QuarterDetail trimestre con su resultado guardado y los modelos 303 y 130 actuales.
func (uc *UseCase) QuarterDetail(ctx context.Context, businessID string, year, number int) (*dto.QuarterDetailResponse, error) {
	fy, q, err := loadQuarter(ctx, uc.stores, businessID, year, number)
	if err != nil {
		return nil, err
	}
	m303, err := uc.modelo303(ctx, fy, q)
	if err != nil {
		return nil, err
	}
	m130, results, err := uc.modelo130(ctx, uc.stores, fy, q)
	if err != nil {
		return nil, err
	}
	return &dto.QuarterDetailResponse{
		Quarter:   toQuarterResponse(fy, q, results[q.Number]),
		Modelo303: toModelo303Response(fy.Year, q.Number, m303),
		Modelo130: toModelo130Response(fy, q.Number, m130),
	}, nil
}

// ComputeModelo303 calcula el 303 del trimestre sin guardar nada.
func (uc *UseCase) ComputeModelo303(ctx context.Context, businessID string, year, number int) (*dto.Modelo303Response, error) {
	fy, q, err := loadQuarter(ctx, uc.stores, businessID, year, number)
	if err != nil {
		return nil, err
	}
	m, err := uc.modelo303(ctx, fy, q)
	if err != nil {
		return nil, err
	}
	out := toModelo303Response(fy.Year, q.Number, m)
	return &out, nil
}

// ComputeModelo130 calcula el 130 acumulado hasta el trimestre sin guardar nada.
func (uc *UseCase) ComputeModelo130(ctx context.Context, businessID string, year, number int) (*dto.Modelo130Response, error) {
	fy, q, err := loadQuarter(ctx, uc.stores, businessID, year, number)
	if err != nil {
		return nil, err
	}
	m, _, err := uc.modelo130(ctx, uc.stores, fy, q)
	if err != nil {
		return nil, err
	}
	out := toModelo130Response(fy, q.Number, m)
	return &out, nil
}

// ComputeModelo390 calcula el resumen anual de IVA.
func (uc *UseCase) ComputeModelo390(ctx context.Context, businessID string, year int) (*dto.Modelo390Response, error) {
	fy, err := loadYear(ctx, uc.stores, businessID, year)
	if err != nil {
		return nil, err
	}
	quarters, err := uc.stores.Quarters.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return nil, err
	}
	records, err := uc.records(ctx, fy, quarters, len(domfiscal.QuarterNumbers))
	if err != nil {
		return nil, err
	}
	out := toModelo390Response(fy.Year, domfiscal.CalculateModelo390(records))
	return &out, nil
}

// SaveQuarterResult recalcula 303 y 130 y guarda los importes calculados (crear o actualizar).
// Los importes presentados existentes solo cambian si vienen en la petición.
// Un trimestre cerrado conserva su resultado.
func (uc *UseCase) SaveQuarterResult(ctx context.Context, businessID string, year, number int, in dto.SaveQuarterResultRequest) (*dto.QuarterlyResultResponse, error) {
	var result *entity.QuarterlyResult
	err := uc.tx.RunFiscal(ctx, func(s Stores) error {
		fy, q, err := lockQuarter(ctx, s, businessID, year, number)
		if err != nil {
			return err
		}
		if q.Closed {
			return domfiscal.ErrQuarterAlreadyClosed
		}
		m303, err := uc.modelo303(ctx, fy, q)
		if err != nil {
			return err
		}
		m130, results, err := uc.modelo130(ctx, s, fy, q)
		if err != nil {
			return err
		}

		now := uc.now()
		result = results[q.Number]
		if result == nil {
			result = &entity.QuarterlyResult{QuarterID: q.ID, CreatedAt: now}
		}
		result.Modelo303Calculated = m303.Result.Round(2)
		result.Modelo130Calculated = m130.Result
		applySubmitted(result, in)
		result.UpdatedAt = now
		return s.Results.Upsert(ctx, result)
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForQuarter(businessID, year, number).Info().
		Str("modelo_303", result.Modelo303Calculated.StringFixed(2)).
		Str("modelo_130", result.Modelo130Calculated.StringFixed(2)).
		Msg("resultado trimestral guardado")
	out := toQuarterlyResultResponse(result)
	return out, nil
}

// CloseQuarter cierra el trimestre si tiene resultado guardado. El cierre es irreversible.
func (uc *UseCase) CloseQuarter(ctx context.Context, businessID string, year, number int) (*dto.QuarterResponse, error) {
	var out dto.QuarterResponse
	err := uc.tx.RunFiscal(ctx, func(s Stores) error {
		fy, q, err := lockQuarter(ctx, s, businessID, year, number)
		if err != nil {
			return err
		}
		result, err := s.Results.GetByQuarter(ctx, q.ID)
		if err != nil {
			return err
		}
		if err := domfiscal.CloseQuarter(q, result, uc.now()); err != nil {
			return err
		}
		if err := s.Quarters.Update(ctx, q); err != nil {
			return err
		}
		out = toQuarterResponse(fy, q, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForQuarter(businessID, year, number).Info().Msg("trimestre cerrado")
	return &out, nil
}

// CloseQuarters cierra varios trimestres. Nunca aborta: informa por elemento si se cerró o se omitió.
func (uc *UseCase) CloseQuarters(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse {
	out := &dto.BatchResponse{Items: make([]dto.BatchItemResult, 0, len(refs))}
	for _, ref := range refs {
		_, err := uc.CloseQuarter(ctx, businessID, ref.Year, ref.Number)
		out.Add(uc.batchItem(businessID, ref.Year, ref.Number, dto.BatchStatusClosed, err))
	}
	return out
}

// SaveQuarterResults calcula y guarda 303 y 130 de varios trimestres, conservando
// los importes presentados. Informa por elemento igual que CloseQuarters.
func (uc *UseCase) SaveQuarterResults(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse {
	out := &dto.BatchResponse{Items: make([]dto.BatchItemResult, 0, len(refs))}
	for _, ref := range refs {
		_, err := uc.SaveQuarterResult(ctx, businessID, ref.Year, ref.Number, dto.SaveQuarterResultRequest{})
		out.Add(uc.batchItem(businessID, ref.Year, ref.Number, dto.BatchStatusSaved, err))
	}
	return out
}

// CloseFiscalYear cierra el año fiscal si tiene los 4 trimestres cerrados.
func (uc *UseCase) CloseFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearResponse, error) {
	var out dto.FiscalYearResponse
	err := uc.tx.RunFiscal(ctx, func(s Stores) error {
		found, err := loadYear(ctx, s, businessID, year)
		if err != nil {
			return err
		}
		fy, err := s.FiscalYears.GetForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		if fy == nil {
			return domain.ErrNotFound
		}
		quarters, err := s.Quarters.ListByFiscalYear(ctx, fy.ID)
		if err != nil {
			return err
		}
		if err := domfiscal.CloseFiscalYear(fy, quarters); err != nil {
			return err
		}
		fy.UpdatedAt = uc.now()
		if err := s.FiscalYears.Update(ctx, fy); err != nil {
			return err
		}
		out = toFiscalYearResponse(fy, quarters)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForQuarter(businessID, year, 0).Info().Msg("año fiscal cerrado")
	return &out, nil
}

// CloseFiscalYears cierra varios años fiscales, informando por elemento.
func (uc *UseCase) CloseFiscalYears(ctx context.Context, businessID string, years []int) *dto.BatchResponse {
	out := &dto.BatchResponse{Items: make([]dto.BatchItemResult, 0, len(years))}
	for _, year := range years {
		_, err := uc.CloseFiscalYear(ctx, businessID, year)
		out.Add(uc.batchItem(businessID, year, 0, dto.BatchStatusClosed, err))
	}
	return out
}

// ResolveQuarter devuelve el año y el trimestre existentes. Lo usan los registros
// del modo por trimestre para asignar ingresos y gastos.
func (uc *UseCase) ResolveQuarter(ctx context.Context, businessID string, year, number int) (*entity.FiscalYear, *entity.Quarter, error) {
	return loadQuarter(ctx, uc.stores, businessID, year, number)
}

// batchItem traduce el error de un elemento; done es el estado si no hubo error.
func (uc *UseCase) batchItem(businessID string, year, number int, done string, err error) dto.BatchItemResult {
	item := dto.BatchItemResult{Year: year, Number: number, Status: done}
	switch {
	case err == nil:
	case domfiscal.IsPrecondition(err):
		item.Status = dto.BatchStatusSkipped
		item.Reason = domfiscal.SkipReason(err)
	case errors.Is(err, domain.ErrNotFound):
		item.Status = dto.BatchStatusSkipped
		item.Reason = domfiscal.SkipNotFound
	default:
		item.Status = dto.BatchStatusError
		item.Reason = err.Error()
		uc.log.ForQuarter(businessID, year, number).Error().Err(err).Str("batch", done).Msg("error en operación por lotes")
		return item
	}
	if item.Status == dto.BatchStatusSkipped {
		uc.log.ForQuarter(businessID, year, number).Warn().Str("batch", done).Str("reason", item.Reason).Msg("elemento de lote omitido")
	}
	return item
}

// modelo303 lee los registros del trimestre y calcula su 303.
func (uc *UseCase) modelo303(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) (domfiscal.Modelo303, error) {
	rec, err := uc.quarterRecords(ctx, fy, q)
	if err != nil {
		return domfiscal.Modelo303{}, err
	}
	return domfiscal.CalculateModelo303(rec.Revenue, rec.Expenses), nil
}

// modelo130 calcula el 130 acumulado hasta q con los resultados guardados de s.
// Devuelve también los resultados por número de trimestre.
func (uc *UseCase) modelo130(ctx context.Context, s Stores, fy *entity.FiscalYear, q *entity.Quarter) (domfiscal.Modelo130, map[int]*entity.QuarterlyResult, error) {
	quarters, err := s.Quarters.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return domfiscal.Modelo130{}, nil, err
	}
	results, err := s.Results.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return domfiscal.Modelo130{}, nil, err
	}
	records, err := uc.records(ctx, fy, quarters, q.Number)
	if err != nil {
		return domfiscal.Modelo130{}, nil, err
	}
	m := domfiscal.CalculateModelo130(domfiscal.Modelo130Input{
		Estimation: fy.EstimationType,
		Quarter:    q.Number,
		Records:    records,
		Results:    results,
	})
	return m, results, nil
}

// records lee los registros de los trimestres con número <= upTo.
func (uc *UseCase) records(ctx context.Context, fy *entity.FiscalYear, quarters []*entity.Quarter, upTo int) ([]domfiscal.QuarterRecords, error) {
	out := make([]domfiscal.QuarterRecords, 0, len(quarters))
	for _, q := range quarters {
		if q.Number > upTo {
			continue
		}
		rec, err := uc.quarterRecords(ctx, fy, q)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (uc *UseCase) quarterRecords(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) (domfiscal.QuarterRecords, error) {
	revenue, err := uc.source.RevenueLines(ctx, fy, q)
	if err != nil {
		return domfiscal.QuarterRecords{}, fmt.Errorf("ingresos del %dT %d: %w", q.Number, fy.Year, err)
	}
	expenses, err := uc.source.Expenses(ctx, fy, q)
	if err != nil {
		return domfiscal.QuarterRecords{}, fmt.Errorf("gastos del %dT %d: %w", q.Number, fy.Year, err)
	}
	return domfiscal.QuarterRecords{Number: q.Number, Revenue: revenue, Expenses: expenses}, nil
}

func loadYear(ctx context.Context, s Stores, businessID string, year int) (*entity.FiscalYear, error) {
	fy, err := s.FiscalYears.GetByBusinessAndYear(ctx, businessID, year)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, domain.ErrNotFound
	}
	return fy, nil
}

func loadQuarter(ctx context.Context, s Stores, businessID string, year, number int) (*entity.FiscalYear, *entity.Quarter, error) {
	if !domfiscal.ValidQuarter(number) {
		return nil, nil, domain.ErrInvalidInput
	}
	fy, err := loadYear(ctx, s, businessID, year)
	if err != nil {
		return nil, nil, err
	}
	q, err := s.Quarters.GetByYearAndNumber(ctx, fy.ID, number)
	if err != nil {
		return nil, nil, err
	}
	if q == nil {
		return nil, nil, domain.ErrNotFound
	}
	return fy, q, nil
}

// lockQuarter como loadQuarter pero con la fila del trimestre bloqueada hasta el fin de la tx.
func lockQuarter(ctx context.Context, s Stores, businessID string, year, number int) (*entity.FiscalYear, *entity.Quarter, error) {
	fy, q, err := loadQuarter(ctx, s, businessID, year, number)
	if err != nil {
		return nil, nil, err
	}
	locked, err := s.Quarters.GetForUpdate(ctx, q.ID)
	if err != nil {
		return nil, nil, err
	}
	if locked == nil {
		return nil, nil, domain.ErrNotFound
	}
	return fy, locked, nil
}

// ensureQuarters crea los trimestres que falten y devuelve los 4 ordenados.
func ensureQuarters(ctx context.Context, s Stores, fy *entity.FiscalYear) ([]*entity.Quarter, error) {
	existing, err := s.Quarters.ListByFiscalYear(ctx, fy.ID)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[int]*entity.Quarter, len(existing))
	for _, q := range existing {
		byNumber[q.Number] = q
	}
	out := make([]*entity.Quarter, 0, len(domfiscal.QuarterNumbers))
	for _, n := range domfiscal.QuarterNumbers {
		q, ok := byNumber[n]
		if !ok {
			q = &entity.Quarter{FiscalYearID: fy.ID, Number: n}
			if err := s.Quarters.Create(ctx, q); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// applySubmitted copia los importes presentados que vengan en la petición.
func applySubmitted(r *entity.QuarterlyResult, in dto.SaveQuarterResultRequest) {
	if in.Modelo303Submitted != nil {
		v := in.Modelo303Submitted.Round(2)
		r.Modelo303Submitted = &v
	}
	if in.Modelo130Submitted != nil {
		v := in.Modelo130Submitted.Round(2)
		r.Modelo130Submitted = &v
	}
	if in.SubmissionDate != nil {
		d := *in.SubmissionDate
		r.SubmissionDate = &d
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
}
