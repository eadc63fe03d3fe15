package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/invoice-api/auth"
	"github.com/diewo77/invoice-api/httpx"
	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/logger"
	"github.com/diewo77/invoice-api/internal/money"
	"github.com/diewo77/invoice-api/internal/services"
	"github.com/diewo77/invoice-api/internal/store"
	"github.com/diewo77/invoice-api/internal/terms"
	"github.com/diewo77/invoice-api/validation"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxPage         = 1_000_000

	// maxItems keeps the largest possible total inside the numeric(12,2) column.
	maxItems = 100
)

type InvoiceHandler struct {
	svc *services.InvoiceService
	log zerolog.Logger
}

func NewInvoiceHandler(svc *services.InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, log: logger.WithComponent(log, "invoice_handler")}
}

// Register mounts the invoice routes. protect wraps every route with authentication.
func (h *InvoiceHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/invoices", protect(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/invoices", protect(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/invoices/summary", protect(http.HandlerFunc(h.Summary)))
	mux.Handle("GET /api/invoices/{id}", protect(http.HandlerFunc(h.Get)))
	mux.Handle("PATCH /api/invoices/{id}", protect(http.HandlerFunc(h.Edit)))
	mux.Handle("PATCH /api/invoices/{id}/pay", protect(http.HandlerFunc(h.MarkPaid)))
	mux.Handle("DELETE /api/invoices/{id}", protect(http.HandlerFunc(h.Delete)))
}

type itemRequest struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    money.Money `json:"price"`
}

// invoiceRequest is the create/edit payload.
type invoiceRequest struct {
	FromStreet   string `json:"fromStreet"`
	FromCity     string `json:"fromCity"`
	FromPostCode string `json:"fromPostCode"`
	FromCountry  string `json:"fromCountry"`

	ToName     string `json:"toName"`
	ToEmail    string `json:"toEmail"`
	ToStreet   string `json:"toStreet"`
	ToCity     string `json:"toCity"`
	ToPostCode string `json:"toPostCode"`
	ToCountry  string `json:"toCountry"`

	IssueDate          string        `json:"issueDate"`
	PaymentTerms       string        `json:"paymentTerms"`
	ProjectDescription string        `json:"projectDescription"`
	Items              []itemRequest `json:"items"`
}

func parseIssueDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func termCodes() []string {
	all := terms.All()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}

// draft checks the payload shape and converts it into an invoice.Draft.
// Item quantity and price bounds are left to the invoice package.
func (req *invoiceRequest) draft() (invoice.Draft, validation.Violations) {
	var v validation.Violations
	validation.Length("fromStreet", req.FromStreet, 3, 100, "Street address must be at least 3 characters long.", &v)
	validation.Length("fromCity", req.FromCity, 3, 100, "City must be at least 3 characters long.", &v)
	validation.Length("fromPostCode", req.FromPostCode, 3, 100, "Post code must be at least 3 characters long.", &v)
	validation.Length("fromCountry", req.FromCountry, 3, 100, "Country must be at least 3 characters long.", &v)
	validation.Length("toName", req.ToName, 3, 100, "Name must be at least 3 characters long.", &v)
	validation.Email("toEmail", req.ToEmail, &v)
	validation.Length("toStreet", req.ToStreet, 3, 100, "Street address must be at least 3 characters long.", &v)
	validation.Length("toCity", req.ToCity, 3, 100, "City must be at least 3 characters long.", &v)
	validation.Length("toPostCode", req.ToPostCode, 3, 100, "Post code must be at least 3 characters long.", &v)
	validation.Length("toCountry", req.ToCountry, 3, 100, "Country must be at least 3 characters long.", &v)
	validation.OneOf("paymentTerms", req.PaymentTerms, termCodes(), &v)
	validation.Length("projectDescription", req.ProjectDescription, 3, 200, "Project description must be at least 3 characters long.", &v)

	issued, ok := parseIssueDate(req.IssueDate)
	if !ok {
		v.Add("issueDate", validation.CodeInvalid, "Invalid date.")
	}

	switch {
	case len(req.Items) == 0:
		v.Add("items", validation.CodeTooShort, "At least one item is required.")
	case len(req.Items) > maxItems:
		v.Add("items", validation.CodeTooLong, fmt.Sprintf("At most %d items are allowed.", maxItems))
	}
	items := make([]invoice.LineItem, 0, len(req.Items))
	for i, it := range req.Items {
		validation.Length("items["+strconv.Itoa(i)+"].name", it.Name, 1, 100, "Item name is required.", &v)
		items = append(items, invoice.LineItem{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	return invoice.Draft{
		Header: invoice.Header{
			Sender: invoice.Party{
				Street:     req.FromStreet,
				City:       req.FromCity,
				PostalCode: req.FromPostCode,
				Country:    req.FromCountry,
			},
			Recipient: invoice.Party{
				Name:       req.ToName,
				Email:      req.ToEmail,
				Street:     req.ToStreet,
				City:       req.ToCity,
				PostalCode: req.ToPostCode,
				Country:    req.ToCountry,
			},
			IssueDate:    issued,
			PaymentTerms: req.PaymentTerms,
			Description:  req.ProjectDescription,
		},
		Items: items,
	}, v
}

// readDraft decodes and checks the payload. It writes the error response itself
// and returns false when the request cannot proceed.
func (h *InvoiceHandler) readDraft(w http.ResponseWriter, r *http.Request) (invoice.Draft, bool) {
	var req invoiceRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, money.ErrNegative) || errors.Is(err, money.ErrPrecision) {
			httpx.JSONErrorMessage(w, http.StatusBadRequest, "validation_failed", "Invalid invoice data",
				validation.Violations{{Field: "items", Code: validation.CodeInvalid, Message: err.Error()}})
			return invoice.Draft{}, false
		}
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", "Invalid invoice data", nil)
		return invoice.Draft{}, false
	}
	d, v := req.draft()
	if !v.Empty() {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "validation_failed", "Invalid invoice data", v)
		return invoice.Draft{}, false
	}
	return d, true
}

// writeError maps service errors onto HTTP responses.
func (h *InvoiceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *invoice.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "validation_failed", verr.Issues[0].Message, verr.Issues)
	case errors.Is(err, invoice.ErrInvalidTerm):
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "validation_failed", "Invalid payment terms",
			validation.Violations{{Field: "paymentTerms", Code: validation.CodeInvalid, Message: err.Error()}})
	case errors.Is(err, invoice.ErrNotFound):
		httpx.JSONErrorMessage(w, http.StatusNotFound, "not_found", "Invoice not found", nil)
	case errors.Is(err, invoice.ErrEditConflict):
		httpx.JSONErrorMessage(w, http.StatusConflict, "conflict", "Invoice was changed by another request, try again", nil)
	case errors.Is(err, invoice.ErrMissingIdentity):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("invoice request failed")
		httpx.JSONErrorMessage(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func identity(w http.ResponseWriter, r *http.Request) (invoice.Identity, bool) {
	who, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	}
	return who, ok
}

func invoiceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_id", "Invalid invoice ID", nil)
		return "", false
	}
	return id, true
}

// List: GET /api/invoices?status=&limit=&page=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	f := store.ListFilter{Limit: defaultPageSize}
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		switch invoice.Status(s) {
		case invoice.StatusPending, invoice.StatusPaid:
			f.Status = invoice.Status(s)
		default:
			httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			f.Limit = n
		}
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > maxPage {
			httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_page", fmt.Sprintf("Page must be at most %d", maxPage), nil)
			return
		}
		if err == nil && n > 1 {
			f.Offset = (n - 1) * f.Limit
		}
	}
	invs, total, err := h.svc.List(r.Context(), who, f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": f.Limit, "offset": f.Offset})
}

// Create: POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	d, ok := h.readDraft(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.Create(r.Context(), who, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Invoice created", "invoice": inv})
}

// Get: GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.Get(r.Context(), who, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Edit: PATCH /api/invoices/{id}
func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	d, ok := h.readDraft(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.Edit(r.Context(), who, id, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Invoice updated", "invoice": inv})
}

// MarkPaid: PATCH /api/invoices/{id}/pay
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.MarkPaid(r.Context(), who, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Invoice marked as paid", "invoice": inv})
}

// Delete: DELETE /api/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.Delete(r.Context(), who, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Invoice deleted.", "invoice": inv})
}

// Summary: GET /api/invoices/summary
func (h *InvoiceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.Revenue(r.Context(), who)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}
