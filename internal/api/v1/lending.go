package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

// loanResponse is a held copy as shown in the borrowed lists.
type loanResponse struct {
	*model.BookCopy
	Overdue bool `json:"overdue"`
}

func (h *Handler) borrowBook(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	var lend model.LendRequest
	if err := json.NewDecoder(r.Body).Decode(&lend); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	// An unknown action is a refused decision, only the date is checked here.
	returnDate, err := validator.ValidateReturnDate(lend.ReturnDate)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	outcome, err := h.service.BorrowOrReserve(r.Context(), user, request.RouteIntParam(r, "id"), lending.Action(lend.Action), returnDate)
	if err != nil {
		log.Debug("Lending request failed", zap.Error(err))
		writeError(w, r, err)
		return
	}
	writeOutcome(w, r, outcome)
}

func (h *Handler) returnCopy(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	copyID, ok := copyIDParam(w, r)
	if !ok {
		return
	}
	outcome, err := h.service.Return(r.Context(), user, copyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOutcome(w, r, outcome)
}

func (h *Handler) renewForm(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	copyID, ok := copyIDParam(w, r)
	if !ok {
		return
	}
	form, err := h.service.RenewForm(r.Context(), user, copyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, form)
}

func (h *Handler) renewCopy(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	copyID, ok := copyIDParam(w, r)
	if !ok {
		return
	}
	var renew model.RenewRequest
	if err := json.NewDecoder(r.Body).Decode(&renew); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	due, err := validator.ValidateReturnDate(renew.RenewalDate)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	outcome, err := h.service.Renew(r.Context(), user, copyID, due)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// myBooks lists the caller's copies on loan, soonest due first.
func (h *Handler) myBooks(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	onLoan := model.CopyStatusOnLoan
	h.writeLoans(w, r, &model.FindBookCopy{BorrowerID: &userID, Status: &onLoan, OrderBy: "due_back"})
}

// allBorrowed lists every copy on loan ordered by book title.
func (h *Handler) allBorrowed(w http.ResponseWriter, r *http.Request) {
	onLoan := model.CopyStatusOnLoan
	h.writeLoans(w, r, &model.FindBookCopy{Status: &onLoan, OrderBy: "title"})
}

func (h *Handler) writeLoans(w http.ResponseWriter, r *http.Request, find *model.FindBookCopy) {
	copies, err := h.store.ListCopies(r.Context(), find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	today := h.service.Today()
	loans := make([]*loanResponse, 0, len(copies))
	for _, c := range copies {
		loans = append(loans, &loanResponse{BookCopy: c, Overdue: lending.IsOverdue(c, today)})
	}
	response.OK(w, r, loans)
}
