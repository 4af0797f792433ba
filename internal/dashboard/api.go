package dashboard

import (
	"context"

	"github.com/muurk/homedash/internal/homeapi"
)

// API is the server surface the dashboard drives. *homeapi.Client
// implements it.
type API interface {
	FetchSnapshot(ctx context.Context) (*homeapi.Snapshot, error)
	Control(ctx context.Context, req homeapi.ControlRequest) (*homeapi.Result, error)
	AddRoom(ctx context.Context, name string) (*homeapi.Result, error)
	AddDevice(ctx context.Context, room, name string, typ homeapi.DeviceType) (*homeapi.Result, error)
	RemoveDevice(ctx context.Context, id string) (*homeapi.Result, error)
	AddRule(ctx context.Context, rule homeapi.RuleRequest) (*homeapi.Result, error)
	SearchDevices(ctx context.Context, query string) ([]homeapi.SearchResult, error)
	CheckSchedule(ctx context.Context, hhmm string) (string, error)
	BulkOn(ctx context.Context) error
	BulkOff(ctx context.Context) error
}

var _ API = (*homeapi.Client)(nil)
