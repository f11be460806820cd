package record

// Ref is a value that is only known once another instance has been flushed,
// typically a foreign key pointing at a row that is still pending.
type Ref interface {
	Resolve() (any, error)
}

type keyRef[T any] struct {
	table *Table[T]
	inst  *T
}

// KeyOf returns a Ref to the single-column primary key of inst. Resolving it
// before inst is flushed fails with an *UnsetColumnError.
func KeyOf[T any](table *Table[T], inst *T) Ref {
	if len(table.pk) != 1 {
		panic("record: KeyOf requires a single-column primary key on table " + table.name)
	}
	return keyRef[T]{table: table, inst: inst}
}

func (r keyRef[T]) Resolve() (any, error) {
	key, err := r.table.keyValues(r.inst)
	if err != nil {
		return nil, err
	}
	return key[0], nil
}
