package database

import (
	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UUIDArray maps a Postgres uuid[] column onto []uuid.UUID.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(UUIDArray, 0, len(arr))
	for _, v := range arr {
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		out = append(out, id)
	}
	*a = out
	return nil
}

func (a UUIDArray) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(a))
	for i, id := range a {
		arr[i] = id.String()
	}
	return arr.Value()
}

// Contains reports whether id is present in the array
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}
