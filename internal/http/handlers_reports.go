package http

import (
	"net/http"

	"github.com/FriggD/controle-gastos-residenciais/internal/log"
)

func (s *Server) handleTotalsByPerson(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.Reports.TotalsByPerson(r.Context())
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	NewJSONResponse().Body(toPersonTotals(report)).Write(w)
}

func (s *Server) handleTotalsByCategory(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.Reports.TotalsByCategory(r.Context())
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	NewJSONResponse().Body(toCategoryTotals(report)).Write(w)
}
