package fixture

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

type Loader struct {
	fetcher  Fetcher
	location *time.Location
}

func NewLoader(fetcher Fetcher, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.Local
	}
	return &Loader{
		fetcher:  fetcher,
		location: loc,
	}
}

func (l *Loader) Location() *time.Location {
	return l.location
}

func (l *Loader) Load(ctx context.Context) (*Fixture, error) {
	data, err := l.fetcher.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, l.location)
}

// Departments 只读取部门列表，不会修改任何状态，调用方可通过 ctx 放弃请求
func (l *Loader) Departments(ctx context.Context) ([]domain.BranchWorkingArea, error) {
	fx, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return fx.Departments, nil
}
