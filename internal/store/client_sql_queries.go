// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	upsertLocalRecord = `
		INSERT INTO local_records (entity_type, entity_id, modified_at, data, dirty, conflicted)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			modified_at = excluded.modified_at,
			data = excluded.data,
			dirty = excluded.dirty;`

	getLocalRecord = `
		SELECT entity_type, entity_id, modified_at, data, dirty, conflicted
		FROM local_records
		WHERE entity_type = ? AND entity_id = ?;`

	listLocalRecords = `
		SELECT entity_type, entity_id, modified_at, data, dirty, conflicted
		FROM local_records
		WHERE entity_type = ?
		ORDER BY modified_at, entity_id;`

	listDirtyLocalRecords = `
		SELECT entity_type, entity_id, modified_at, data, dirty, conflicted
		FROM local_records
		WHERE entity_type = ? AND dirty = 1 AND conflicted = 0
		ORDER BY modified_at, entity_id;`

	markLocalRecordClean = `
		UPDATE local_records SET dirty = 0
		WHERE entity_type = ? AND entity_id = ? AND modified_at = ?;`

	setLocalRecordConflicted = `
		UPDATE local_records SET conflicted = ?, dirty = 0
		WHERE entity_type = ? AND entity_id = ?;`

	upsertLocalConflict = `
		INSERT INTO local_conflicts (entity_type, entity_id, local_modified_at, server_modified_at, server_payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			local_modified_at = excluded.local_modified_at,
			server_modified_at = excluded.server_modified_at,
			server_payload = excluded.server_payload;`

	refreshLocalConflictServerCopy = `
		UPDATE local_conflicts SET server_modified_at = ?, server_payload = ?
		WHERE entity_type = ? AND entity_id = ?;`

	listLocalConflicts = `
		SELECT entity_type, entity_id, local_modified_at, server_modified_at, server_payload
		FROM local_conflicts
		ORDER BY entity_type, entity_id;`

	getLocalConflict = `
		SELECT entity_type, entity_id, local_modified_at, server_modified_at, server_payload
		FROM local_conflicts
		WHERE entity_type = ? AND entity_id = ?;`

	deleteLocalConflict = `
		DELETE FROM local_conflicts
		WHERE entity_type = ? AND entity_id = ?;`

	getSyncState = `SELECT value FROM sync_state WHERE key = ?;`

	setSyncState = `
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	deleteSyncState = `DELETE FROM sync_state WHERE key = ?;`
)

const (
	stateKeyCursor       = "pull_cursor"
	stateKeySessionLogin = "session_login"
	stateKeySessionToken = "session_token"
)
