//go:build windows

package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	_ "github.com/mattn/go-adodb"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// ADO SchemaEnum values.
const (
	adSchemaTables      = 20
	adSchemaPrimaryKeys = 28
)

// HRESULTs returned by CoInitialize that still leave COM usable.
const (
	hrSFalse         = 0x00000001
	hrRPCChangedMode = 0x80010106
)

func init() {
	Register(Provider{
		Name:         types.ProviderACE,
		Driver:       "adodb",
		DSN:          oleDBDSN(oleDBProviderACE),
		SystemPrefix: "MSys",
		Catalog:      adoCatalog{},
	})
	Register(Provider{
		Name:         types.ProviderJet,
		Driver:       "adodb",
		DSN:          oleDBDSN(oleDBProviderJet),
		SystemPrefix: "MSys",
		Catalog:      adoCatalog{},
	})
}

// adoCatalog reads schema rowsets through ADODB.Connection.OpenSchema,
// which the database/sql driver does not expose.
type adoCatalog struct{}

func (adoCatalog) Tables(_ context.Context, _ *sql.DB, dsn string) ([]types.TableDescriptor, error) {
	var out []types.TableDescriptor
	err := openSchema(dsn, adSchemaTables, func(fields *ole.IDispatch) error {
		name, err := fieldString(fields, "TABLE_NAME")
		if err != nil {
			return err
		}
		kind, err := fieldString(fields, "TABLE_TYPE")
		if err != nil {
			return err
		}
		out = append(out, types.TableDescriptor{Name: name, Kind: adoKind(kind)})
		return nil
	})
	return out, err
}

func (adoCatalog) PrimaryKey(_ context.Context, _ *sql.DB, dsn, table string) ([]string, error) {
	var keys []string
	err := openSchema(dsn, adSchemaPrimaryKeys, func(fields *ole.IDispatch) error {
		name, err := fieldString(fields, "TABLE_NAME")
		if err != nil {
			return err
		}
		if !strings.EqualFold(name, table) {
			return nil
		}
		col, err := fieldString(fields, "COLUMN_NAME")
		if err != nil {
			return err
		}
		keys = append(keys, col)
		return nil
	})
	return keys, err
}

func adoKind(kind string) types.TableKind {
	switch kind {
	case "TABLE":
		return types.TableKindUser
	case "SYSTEM TABLE", "ACCESS TABLE":
		return types.TableKindSystem
	case "VIEW":
		return types.TableKindView
	default:
		return types.TableKindOther
	}
}

// withCOM runs fn on a locked OS thread with COM initialised for that
// thread. The adodb driver initialises COM per connection on whatever thread
// opens it, so schema reads cannot rely on that.
func withCOM(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitialize(0); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) {
			return fmt.Errorf("initialize COM: %w", err)
		}
		switch oleErr.Code() {
		case hrSFalse:
			// Already initialised on this thread; the call still counts.
		case hrRPCChangedMode:
			// Initialised in another apartment, which is usable as is.
			return fn()
		default:
			return fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()
	return fn()
}

// openSchema opens a separate ADO connection on dsn and calls fn with the
// Fields collection of every record in the requested schema rowset.
func openSchema(dsn string, schema int, fn func(fields *ole.IDispatch) error) error {
	return withCOM(func() error { return readSchema(dsn, schema, fn) })
}

func readSchema(dsn string, schema int, fn func(fields *ole.IDispatch) error) error {
	unknown, err := oleutil.CreateObject("ADODB.Connection")
	if err != nil {
		return fmt.Errorf("create ADODB.Connection: %w", err)
	}
	defer unknown.Release()

	conn, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("query ADODB.Connection: %w", err)
	}
	defer conn.Release()

	if _, err := oleutil.CallMethod(conn, "Open", dsn); err != nil {
		return fmt.Errorf("open schema connection: %w", err)
	}
	defer oleutil.CallMethod(conn, "Close")

	rsv, err := oleutil.CallMethod(conn, "OpenSchema", schema)
	if err != nil {
		return fmt.Errorf("open schema %d: %w", schema, err)
	}
	rs := rsv.ToIDispatch()
	defer rs.Release()
	defer oleutil.CallMethod(rs, "Close")

	for {
		eof, err := oleutil.GetProperty(rs, "EOF")
		if err != nil {
			return fmt.Errorf("read EOF: %w", err)
		}
		if done, _ := eof.Value().(bool); done {
			return nil
		}

		fv, err := oleutil.GetProperty(rs, "Fields")
		if err != nil {
			return fmt.Errorf("read Fields: %w", err)
		}
		fields := fv.ToIDispatch()
		err = fn(fields)
		fields.Release()
		if err != nil {
			return err
		}

		if _, err := oleutil.CallMethod(rs, "MoveNext"); err != nil {
			return fmt.Errorf("move next: %w", err)
		}
	}
}

func fieldString(fields *ole.IDispatch, name string) (string, error) {
	item, err := oleutil.GetProperty(fields, "Item", name)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", name, err)
	}
	field := item.ToIDispatch()
	defer field.Release()

	v, err := oleutil.GetProperty(field, "Value")
	if err != nil {
		return "", fmt.Errorf("field %s value: %w", name, err)
	}
	s, _ := v.Value().(string)
	return s, nil
}
