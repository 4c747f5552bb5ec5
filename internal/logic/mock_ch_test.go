package logic

import (
	"context"
	"errors"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type MockConn struct {
	driver.Conn
	QueryCalls int
	LastQuery  string
	LastArgs   []interface{}
	Rows       [][]interface{}
	QueryErr   error
	ScanErr    error
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.QueryCalls++
	m.LastQuery = query
	m.LastArgs = args
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &MockRows{data: m.Rows, scanErr: m.ScanErr}, nil
}

type MockRows struct {
	driver.Rows
	data     [][]interface{}
	rowIndex int
	scanErr  error
}

func (m *MockRows) Next() bool {
	m.rowIndex++
	return m.rowIndex <= len(m.data)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.scanErr != nil {
		return m.scanErr
	}
	row := m.data[m.rowIndex-1]
	if len(row) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i := range dest {
		assign(dest[i], row[i])
	}
	return nil
}

func (m *MockRows) Close() error {
	return nil
}

func (m *MockRows) Err() error {
	return nil
}

func assign(dest interface{}, val interface{}) {
	// Simple reflection to assign value to pointer
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.ValueOf(val))
}
