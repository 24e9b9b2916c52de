package fakebank

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, req, http.StatusNotFound, "No handler found for "+req.Method+" "+req.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, req, http.StatusMethodNotAllowed, "Request method '"+req.Method+"' is not supported")
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.logRequests)

	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", s.refreshToken).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/validate", s.authenticated(s.validate)).Methods(http.MethodGet)

	api.HandleFunc("/account/getall", s.authenticated(s.allAccounts)).Methods(http.MethodGet)
	api.HandleFunc("/account/details/{accountNumber}", s.authenticated(s.accountDetails)).Methods(http.MethodGet)
	api.HandleFunc("/account/search", s.authenticated(s.searchAccounts)).Methods(http.MethodGet)
	api.HandleFunc("/account/getIBANByUsername", s.authenticated(s.accountNumbers)).Methods(http.MethodPost)

	api.HandleFunc("/transaction/getall", s.authenticated(s.allTransactions)).Methods(http.MethodGet)
	api.HandleFunc("/transaction/byaccount/{accountNumber}", s.authenticated(s.accountTransactions)).Methods(http.MethodGet)
	api.HandleFunc("/transaction/transfer/preview", s.authenticated(s.previewTransfer)).Methods(http.MethodPost)
	api.HandleFunc("/transaction/transfer", s.authenticated(s.transfer)).Methods(http.MethodPost)

	api.HandleFunc("/users", s.authenticated(s.usersPage)).Methods(http.MethodGet)
	api.HandleFunc("/users/disabled", s.authenticated(s.disabledUsersPage)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", s.authenticated(s.userByID)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/enable", s.authenticated(s.enableUser)).Methods(http.MethodPut)

	api.HandleFunc("/currency/exchange-rate", s.authenticated(s.exchangeRate)).Methods(http.MethodGet)

	return r
}
