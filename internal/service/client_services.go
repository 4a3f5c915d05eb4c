package service

import (
	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

type ClientServices struct {
	AuthService   ClientAuthService
	RecordService ClientRecordService
	SyncService   ClientSyncService
	SyncJob       ClientSyncJob
}

func NewClientServices(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter) *ClientServices {
	syncSvc := NewClientSyncService(localStore.Records, serverAdapter)

	return &ClientServices{
		AuthService:   NewClientAuthService(localStore.Sessions, serverAdapter),
		RecordService: NewClientRecordService(localStore.Records),
		SyncService:   syncSvc,
		SyncJob:       NewClientSyncJob(syncSvc),
	}
}
