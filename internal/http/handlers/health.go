package handlers

import (
	"net/http"
)

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.text(w, http.StatusOK, "Backend OK")
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.text(w, http.StatusOK, "ok")
}
