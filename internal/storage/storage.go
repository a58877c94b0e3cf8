package storage

import "yieldRadar/internal/model"

// Storage defines a sink for pool snapshot records.
type Storage interface {
	PutPoolBatch(pools []model.Pool) error
}
