package service

import (
	"context"

	memdb "github.com/hashicorp/go-memdb"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/models"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

const (
	tableSmContext  = "sm_context"
	tablePduSession = "pdu_session"
	tableNFInstance = "nf_instance"
)

// SmContextRecord is an sm context held by the SMF.
type SmContextRecord struct {
	Ref        string
	Supi       string
	Data       models.SmContextCreateData
	UpCnxState models.UpCnxState
	HoState    models.HoState
}

// PduSessionRecord is a home-routed pdu session held by the H-SMF.
type PduSessionRecord struct {
	Ref  string
	Supi string
	Data models.PduSessionCreateData
}

type StorageService interface {
	PutSmContext(ctx context.Context, rec *SmContextRecord) error
	GetSmContext(ctx context.Context, ref string) (*SmContextRecord, error)
	RemoveSmContext(ctx context.Context, ref string) (*SmContextRecord, error)
	ModifySmContext(ctx context.Context, ref string, fn func(current *SmContextRecord) *SmContextRecord) (*SmContextRecord, error)
	PutPduSession(ctx context.Context, rec *PduSessionRecord) error
	GetPduSession(ctx context.Context, ref string) (*PduSessionRecord, error)
	RemovePduSession(ctx context.Context, ref string) (*PduSessionRecord, error)
	PutNFProfile(ctx context.Context, profile *models.NFProfile) error
	FindNFProfiles(ctx context.Context, nfType models.NFType) ([]*models.NFProfile, error)
}

// MemoryStorage keeps every table in a single go-memdb database. Getters
// return nil, nil for absent rows.
type MemoryStorage struct {
	db *memdb.MemDB
}

var _ StorageService = &MemoryStorage{}

func NewMemoryStorage(profiles []*models.NFProfile) (*MemoryStorage, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableSmContext: {
				Name: tableSmContext,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Ref"},
					},
					"supi": {
						Name:         "supi",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Supi"},
					},
				},
			},
			tablePduSession: {
				Name: tablePduSession,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Ref"},
					},
				},
			},
			tableNFInstance: {
				Name: tableNFInstance,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "NfInstanceID"},
					},
					"type": {
						Name:    "type",
						Indexer: &memdb.StringFieldIndex{Field: "NfType"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}

	txn := db.Txn(true)
	for _, p := range profiles {
		log.Info("pre-inserting nf profile", zap.String("nf_instance", p.NfInstanceID), zap.String("nf_type", string(p.NfType)))
		if err := txn.Insert(tableNFInstance, p); err != nil {
			txn.Abort()
			return nil, err
		}
	}

	txn.Commit()
	log.Info("in-memory storage ready")
	return &MemoryStorage{db: db}, nil
}

func (s *MemoryStorage) insert(table string, obj interface{}) error {
	txn := s.db.Txn(true)
	if err := txn.Insert(table, obj); err != nil {
		txn.Abort()
		return err
	}

	txn.Commit()
	return nil
}

func (s *MemoryStorage) first(table, id string) (interface{}, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return txn.First(table, "id", id)
}

func (s *MemoryStorage) remove(table, id string) (interface{}, error) {
	txn := s.db.Txn(true)
	obj, err := txn.First(table, "id", id)
	if err == nil && obj != nil {
		err = txn.Delete(table, obj)
	}

	if err != nil {
		txn.Abort()
		return nil, err
	}

	txn.Commit()
	return obj, nil
}

func (s *MemoryStorage) PutSmContext(ctx context.Context, rec *SmContextRecord) error {
	return s.insert(tableSmContext, rec)
}

func (s *MemoryStorage) GetSmContext(ctx context.Context, ref string) (*SmContextRecord, error) {
	obj, err := s.first(tableSmContext, ref)
	if err != nil || obj == nil {
		return nil, err
	}

	return obj.(*SmContextRecord), nil
}

func (s *MemoryStorage) RemoveSmContext(ctx context.Context, ref string) (*SmContextRecord, error) {
	obj, err := s.remove(tableSmContext, ref)
	if err != nil || obj == nil {
		return nil, err
	}

	return obj.(*SmContextRecord), nil
}

// ModifySmContext replaces the record with fn's result inside one write
// transaction. It returns nil, nil when the record is absent. A nil result
// from fn leaves the stored record as is and returns it.
func (s *MemoryStorage) ModifySmContext(ctx context.Context, ref string, fn func(current *SmContextRecord) *SmContextRecord) (*SmContextRecord, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()
	obj, err := txn.First(tableSmContext, "id", ref)
	if err != nil || obj == nil {
		return nil, err
	}

	current := obj.(*SmContextRecord)
	next := fn(current)
	if next == nil {
		return current, nil
	}

	if err := txn.Insert(tableSmContext, next); err != nil {
		return nil, err
	}

	txn.Commit()
	return next, nil
}

func (s *MemoryStorage) PutPduSession(ctx context.Context, rec *PduSessionRecord) error {
	return s.insert(tablePduSession, rec)
}

func (s *MemoryStorage) GetPduSession(ctx context.Context, ref string) (*PduSessionRecord, error) {
	obj, err := s.first(tablePduSession, ref)
	if err != nil || obj == nil {
		return nil, err
	}

	return obj.(*PduSessionRecord), nil
}

func (s *MemoryStorage) RemovePduSession(ctx context.Context, ref string) (*PduSessionRecord, error) {
	obj, err := s.remove(tablePduSession, ref)
	if err != nil || obj == nil {
		return nil, err
	}

	return obj.(*PduSessionRecord), nil
}

func (s *MemoryStorage) PutNFProfile(ctx context.Context, profile *models.NFProfile) error {
	return s.insert(tableNFInstance, profile)
}

func (s *MemoryStorage) FindNFProfiles(ctx context.Context, nfType models.NFType) ([]*models.NFProfile, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableNFInstance, "type", string(nfType))
	if err != nil {
		return nil, err
	}

	result := make([]*models.NFProfile, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		result = append(result, obj.(*models.NFProfile))
	}

	return result, nil
}
