package tablegate

// Cell is a single versioned value stored under family:qualifier.
type Cell struct {
	Family    string
	Qualifier []byte
	Value     []byte
	Timestamp int64 // microseconds
}

// Row is a snapshot of a single row as returned by the storage service:
//
// Example:
//
//	Row{
//	  Key: "user:1",
//	  Cells: []Cell{
//	    {Family: "profile", Qualifier: []byte("name"), Value: []byte("ada"), Timestamp: 1700000000000000},
//	    {Family: "profile", Qualifier: []byte("name"), Value: []byte("al"), Timestamp: 1600000000000000},
//	  },
//	}
//
// Multiple cells may share a family and qualifier; each one is a version.
// Rows are never mutated once read.
type Row struct {
	Key   string
	Cells []Cell
}

// Operation names the kind of change applied through the gateway.
type Operation string

const (
	OperationCreateTable Operation = "CREATE_TABLE"
	OperationDeleteTable Operation = "DELETE_TABLE"
	OperationWrite       Operation = "WRITE"
	OperationDeleteRow   Operation = "DELETE_ROW"
)
