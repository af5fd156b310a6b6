package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"endless-quiz/internal/quiz"
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	open := len(a.sessions)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Sessions: open})
}

// HandleCreateSession starts a session and fetches its first question.
func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, controller, err := a.openSession()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	state, err := controller.FetchNext(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(id, state, controller.Played()))
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	controller, err := a.session(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(id, controller.State(), controller.Played()))
}

func (a *API) HandleNext(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(controller *quiz.Controller) (quiz.State, error) {
		return controller.FetchNext(r.Context())
	})
}

func (a *API) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var request selectRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	index, err := choiceIndex(request)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	a.withSession(w, r, func(controller *quiz.Controller) (quiz.State, error) {
		return controller.Select(index)
	})
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(controller *quiz.Controller) (quiz.State, error) {
		return controller.Submit()
	})
}

func (a *API) HandleSessionWake(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(controller *quiz.Controller) (quiz.State, error) {
		return controller.TriggerWake(r.Context())
	})
}

// HandleFinish ends the session, records its stats and returns the grade.
// The session id stops resolving afterwards.
func (a *API) HandleFinish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	controller, err := a.session(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stats := controller.Finish()
	a.closeSession(id)

	if a.results != nil {
		if err := a.results.RecordResult(r.Context(), id, stats); err != nil {
			a.logger.Printf("record result for session %s failed: %v", id, err)
		}
	}
	writeJSON(w, http.StatusOK, toResultResponse(id, quiz.Grade(stats)))
}

// HandleCloseSession drops a session without recording a result.
func (a *API) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := a.session(id); err != nil {
		writeServiceError(w, err)
		return
	}
	a.closeSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleWake forwards one restore request to the management endpoint.
func (a *API) HandleWake(w http.ResponseWriter, r *http.Request) {
	if a.waker == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed"})
		return
	}
	if err := a.waker.Wake(r.Context()); err != nil {
		a.logger.Printf("wake request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Waking up..."})
}

// HandleResult grades a score passed as ?correct=&total=.
func (a *API) HandleResult(w http.ResponseWriter, r *http.Request) {
	correct, err := parseCountParam(r, "correct")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	total, err := parseCountParam(r, "total")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if correct > total {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "correct cannot exceed total"})
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse("", quiz.Grade(quiz.Stats{Correct: correct, Total: total})))
}

func (a *API) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.items.ListItems(r.Context())
	if err != nil {
		a.logger.Printf("list items failed: %v", err)
		writeServiceError(w, err)
		return
	}

	response := itemsResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		response.Items = append(response.Items, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := a.items.GetItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (a *API) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var request itemRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	item, err := request.toItem("")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := a.items.CreateItem(r.Context(), item)
	if err != nil {
		if !errors.Is(err, quiz.ErrMalformedItem) {
			a.logger.Printf("create item failed: %v", err)
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(created))
}

func (a *API) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var request itemRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	item, err := request.toItem(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := a.items.UpdateItem(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	updated, err := a.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(updated))
}

func (a *API) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := a.items.DeleteItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSession runs action on the session named in the path and writes the
// resulting state.
func (a *API) withSession(w http.ResponseWriter, r *http.Request, action func(*quiz.Controller) (quiz.State, error)) {
	id := mux.Vars(r)["id"]
	controller, err := a.session(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	state, err := action(controller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(id, state, controller.Played()))
}
