package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// docRoute is one line of the rendered API documentation page.
type docRoute struct {
	Method      string
	Path        string
	Description string
}

var docRoutes = []docRoute{
	{Method: "GET", Path: "/catways", Description: "Récupérer la liste des catways."},
	{Method: "GET", Path: "/catways/:catwayNumber", Description: "Récupérer les détails d'un catway."},
	{Method: "GET", Path: "/catways/:catwayNumber/reservations", Description: "Récupérer les réservations d'un catway."},
	{Method: "GET", Path: "/catways/:catwayNumber/reservations/:reservationId", Description: "Récupérer les détails d'une réservation."},
	{Method: "POST", Path: "/login", Description: "Se connecter."},
	{Method: "GET", Path: "/logout", Description: "Se déconnecter."},
	{Method: "POST", Path: "/dashboard/create-user", Description: "Créer un utilisateur."},
	{Method: "POST", Path: "/dashboard/update-user", Description: "Mettre à jour un utilisateur."},
	{Method: "POST", Path: "/dashboard/delete-user", Description: "Supprimer un utilisateur."},
	{Method: "POST", Path: "/dashboard/create-catway", Description: "Créer un catway."},
	{Method: "POST", Path: "/dashboard/update-catway-state", Description: "Mettre à jour l'état d'un catway."},
	{Method: "POST", Path: "/dashboard/delete-catway", Description: "Supprimer un catway."},
	{Method: "POST", Path: "/dashboard/save-reservation", Description: "Enregistrer une réservation."},
	{Method: "POST", Path: "/dashboard/delete-reservation", Description: "Supprimer une réservation."},
}

type DocsHandler struct{}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

func (h *DocsHandler) Page(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "documentation.html", gin.H{
		"title":  "Documentation API PPR",
		"routes": docRoutes,
	})
}
