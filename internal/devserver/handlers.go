package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func pathInt(r *http.Request, name string) (int, error) {
	value := mux.Vars(r)[name]
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid("%s is not a number: %q", name, value)
	}
	return id, nil
}

// pathInts parses the named path variables in order.
func pathInts(r *http.Request, names ...string) ([]int, error) {
	ids := make([]int, len(names))
	for i, name := range names {
		id, err := pathInt(r, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func decodeBody[P any](r *http.Request) (P, error) {
	var payload P
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return payload, invalid("decode body: %s", err)
	}
	return payload, nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("devserver: %s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func handleRead[T any](read func(r *http.Request) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := read(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		pkg.WriteJSON(w, result, http.StatusOK)
	}
}

func handleCreate[P, T any](create func(r *http.Request, payload P) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeBody[P](r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		created, err := create(r, payload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		pkg.WriteJSON(w, created, http.StatusCreated)
	}
}

func handleUpdate[P any](update func(r *http.Request, payload P) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeBody[P](r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := update(r, payload); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAction serves body-less mutations: deletes and workout lifecycle calls.
func handleAction(action func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := action(r); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func byID[T any](get func(id int) (T, error)) func(r *http.Request) (T, error) {
	return func(r *http.Request) (T, error) {
		id, err := pathInt(r, "id")
		if err != nil {
			var zero T
			return zero, err
		}
		return get(id)
	}
}

func queryInts(r *http.Request, name string) ([]int, error) {
	values := r.URL.Query()[name]
	ids := make([]int, 0, len(values))
	for _, v := range values {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, invalid("%s: %q is not a number", name, v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func listOf[T any](list func() []T) func(r *http.Request) ([]T, error) {
	return func(*http.Request) ([]T, error) {
		return list(), nil
	}
}

func routeName(entity, op string) string {
	return fmt.Sprintf("%s-%s", op, entity)
}
