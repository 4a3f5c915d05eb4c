// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		writeError(w, r, "*Handler.pull", service.ErrUnauthorized)
		return
	}

	// an empty body is a full resync
	var pullRequest models.PullRequest
	if !decodeRequest(w, r, "*Handler.pull", maxSyncBody, &pullRequest, true) {
		return
	}

	changes, err := h.services.SyncService.GetChanges(ctx, userID, pullRequest.Since)
	if err != nil {
		writeError(w, r, "*Handler.pull", err)
		return
	}

	// empty lists travel as [] rather than null
	if changes.Records == nil {
		changes.Records = []models.SyncRecord{}
	}
	summaryFromRequest(r).items = len(changes.Records)

	utils.WriteJSON(w, models.PullResponse{
		Changes:    changes.Records,
		ServerTime: changes.ServerTime,
	}, http.StatusOK)
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		writeError(w, r, "*Handler.push", service.ErrUnauthorized)
		return
	}

	var pushRequest models.PushRequest
	if !decodeRequest(w, r, "*Handler.push", maxSyncBody, &pushRequest, false) {
		return
	}

	summary := summaryFromRequest(r)
	summary.entityType = string(pushRequest.EntityType)
	summary.items = len(pushRequest.Items)

	outcome, err := h.services.SyncService.UpsertBatch(ctx, pushRequest.EntityType, userID, pushRequest.Items)
	if err != nil {
		writeError(w, r, "*Handler.push", err)
		return
	}

	if outcome.Conflicts == nil {
		outcome.Conflicts = []models.Conflict{}
	}
	summary.conflicts = len(outcome.Conflicts)
	summary.itemErrors = len(outcome.Errors)

	utils.WriteJSON(w, models.PushResponse{
		Success:     true,
		ItemsSynced: outcome.Committed,
		Conflicts:   outcome.Conflicts,
		Errors:      outcome.Errors,
	}, http.StatusOK)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		writeError(w, r, "*Handler.resolve", service.ErrUnauthorized)
		return
	}

	var resolveRequest models.ResolveRequest
	if !decodeRequest(w, r, "*Handler.resolve", maxSyncBody, &resolveRequest, false) {
		return
	}
	summaryFromRequest(r).entityType = string(resolveRequest.EntityType)

	if err := h.services.SyncService.ResolveConflict(ctx, userID, resolveRequest); err != nil {
		writeError(w, r, "*Handler.resolve", err)
		return
	}

	utils.WriteJSON(w, models.ResolveResponse{Success: true}, http.StatusOK)
}
