package billing

import (
	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toInvoiceResponse(inv *entity.Invoice, payments []*entity.Payment) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:               inv.ID,
		BusinessID:       inv.BusinessID,
		Number:           inv.Number,
		Series:           inv.Series,
		Status:           string(inv.Status),
		StatusLabel:      inv.Status.Label(),
		Currency:         inv.Currency,
		IssueDate:        inv.IssueDate.Format(dateLayout),
		ClientID:         inv.ClientID,
		ClientName:       inv.ClientName,
		ClientTaxID:      inv.ClientTaxID,
		Notes:            inv.Notes,
		LegalText:        inv.LegalText,
		Lines:            make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
		Subtotal:         inv.Subtotal(),
		TaxTotal:         inv.TaxTotal(),
		WithholdingTotal: inv.WithholdingTotal(),
		Total:            inv.Total(),
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			ID:                l.ID,
			Position:          l.Position,
			Description:       l.Description,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			DiscountPercent:   l.DiscountPercent,
			TaxRate:           l.TaxRate,
			WithholdingRate:   l.WithholdingRate,
			Subtotal:          l.Subtotal,
			TaxAmount:         l.TaxAmount,
			WithholdingAmount: l.WithholdingAmount,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	out.Paid = paidTotal(payments)
	out.Balance = out.Total.Sub(out.Paid)
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Date:        p.Date.Format(dateLayout),
		Method:      string(p.Method),
		MethodLabel: p.Method.Label(),
		Notes:       p.Notes,
	}
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:             e.ID,
		QuarterID:      e.QuarterID,
		Date:           e.Date.Format(dateLayout),
		Concept:        e.Concept,
		Supplier:       e.Supplier,
		Reference:      e.Reference,
		Category:       string(e.Category),
		TaxableBase:    e.TaxableBase,
		VATType:        int(e.VATType),
		InputVAT:       e.InputVAT,
		Total:          e.Total(),
		IRPFDeductible: e.IRPFDeductible,
		VATDeductible:  e.VATDeductible,
		Notes:          e.Notes,
	}
}

func toIncomeResponse(i *entity.Income) dto.IncomeResponse {
	return dto.IncomeResponse{
		ID:              i.ID,
		QuarterID:       i.QuarterID,
		Date:            i.Date.Format(dateLayout),
		Concept:         i.Concept,
		Client:          i.Client,
		Reference:       i.Reference,
		TaxableBase:     i.TaxableBase,
		VATType:         int(i.VATType),
		OutputVAT:       i.OutputVAT,
		WithholdingRate: i.WithholdingRate,
		Withholding:     i.Withholding,
		Total:           i.TaxableBase.Add(i.OutputVAT).Sub(i.Withholding),
		Notes:           i.Notes,
	}
}

func toClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Province:   c.Province,
		Email:      c.Email,
		Phone:      c.Phone,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toCatalogItemResponse(item *entity.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:                     item.ID,
		Name:                   item.Name,
		Description:            item.Description,
		DefaultUnitPrice:       item.DefaultUnitPrice,
		DefaultTaxRate:         item.DefaultTaxRate,
		DefaultWithholdingRate: item.DefaultWithholdingRate,
		Active:                 item.Active,
		CreatedAt:              item.CreatedAt,
		UpdatedAt:              item.UpdatedAt,
	}
}
