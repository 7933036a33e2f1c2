package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp-forge/employee-api/internal/server"
	"github.com/hashicorp-forge/employee-api/pkg/employees"
	"github.com/hashicorp-forge/employee-api/pkg/models"
)

const (
	employeesPath = "/api/v1/employee"

	highestSalaryPath = "highestSalary"
	topEarnersPath    = "topTenHighestEarningEmployeeNames"
	searchPathPrefix  = "search/"
)

// EmployeesHandler serves the employee collection: GET lists every employee
// and POST creates one.
func EmployeesHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			emps, err := srv.Employees.FetchAll(r.Context())
			if err != nil {
				respondError(w, srv.Logger, "error fetching employees", err)
				return
			}
			writeJSON(w, srv.Logger, http.StatusOK, emps)

		case "POST":
			// A JSON null body decodes to a nil input.
			var input *models.EmployeeInput
			if err := decodeRequest(r, &input); err != nil {
				srv.Logger.Error("error decoding employee request", "error", err)
				http.Error(w, fmt.Sprintf("Bad request: %q", err),
					http.StatusBadRequest)
				return
			}
			if input != nil {
				if err := input.Validate(); err != nil {
					srv.Logger.Warn("invalid employee request", "error", err)
					http.Error(w, fmt.Sprintf("Bad request: %v", err),
						http.StatusBadRequest)
					return
				}
			}

			emp, err := srv.Employees.Create(r.Context(), input)
			if err != nil {
				respondError(w, srv.Logger, "error creating employee", err)
				return
			}
			writeJSON(w, srv.Logger, http.StatusOK, emp)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
	})
}

// EmployeeHandler serves everything below the employee collection: the
// search, highest salary and top earners reports, and single employees by
// ID (GET and DELETE).
func EmployeeHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, employeesPath+"/")

		switch {
		case rest == highestSalaryPath:
			if r.Method != "GET" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			highest, err := srv.Employees.HighestSalary(r.Context())
			if err != nil {
				respondError(w, srv.Logger, "error calculating highest salary", err)
				return
			}
			writeJSON(w, srv.Logger, http.StatusOK, highest)

		case rest == topEarnersPath:
			if r.Method != "GET" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			names, err := srv.Employees.TopEarners(r.Context(), employees.DefaultTopEarners)
			if err != nil {
				respondError(w, srv.Logger, "error finding top earners", err)
				return
			}
			writeJSON(w, srv.Logger, http.StatusOK, names)

		case strings.HasPrefix(rest, searchPathPrefix):
			if r.Method != "GET" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			fragment := strings.TrimPrefix(rest, searchPathPrefix)
			emps, err := srv.Employees.SearchByName(r.Context(), fragment)
			if err != nil {
				respondError(w, srv.Logger, "error searching employees", err)
				return
			}
			writeJSON(w, srv.Logger, http.StatusOK, emps)

		default:
			serveEmployeeByID(srv, w, r)
		}
	})
}

func serveEmployeeByID(srv server.Server, w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceIDFromURL(r.URL.Path, "employee")
	if err != nil {
		srv.Logger.Error("error parsing employee id from URL", "path", r.URL.Path, "error", err)
		http.Error(w, fmt.Sprintf("Bad request: %v", err), http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		emp, err := srv.Employees.GetByID(r.Context(), id)
		if err != nil {
			respondError(w, srv.Logger, "error fetching employee", err)
			return
		}
		// Unknown IDs answer 200 with a null body.
		writeJSON(w, srv.Logger, http.StatusOK, emp)

	case "DELETE":
		msg, err := srv.Employees.Delete(r.Context(), id)
		if err != nil {
			respondError(w, srv.Logger, "error deleting employee", err)
			return
		}
		writeJSON(w, srv.Logger, http.StatusOK, msg)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}
