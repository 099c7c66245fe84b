package http

import (
	"net/http"
	"sync/atomic"

	"github.com/FriggD/controle-gastos-residenciais/internal/log"
)

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.ledger.People.List(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(people, toPerson)).Write(w)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	p, err := s.ledger.People.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(toPerson(p)).Write(w)
}

func (s *Server) handlePersonTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	txs, err := s.ledger.People.Transactions(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(txs, toTransaction)).Write(w)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	p, err := s.ledger.People.Create(r.Context(), req.createCommand())
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.peopleCreated, 1)
	NewJSONResponse().Created(resourceLocation(r, p.ID)).Body(toPerson(p)).Write(w)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var req personRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if err := checkBodyID(id, req.ID); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	p, err := s.ledger.People.Update(r.Context(), req.updateCommand(id))
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toPerson(p)).Write(w)
}

// handleDeletePerson answers 204 whether or not the person existed.
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.ledger.People.Delete(r.Context(), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	NoContent().Write(w)
}
