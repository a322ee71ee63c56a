package codec

import (
	"fmt"
	"reflect"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/wire"
	"github.com/puzpuzpuz/xsync/v3"
)

// Constructor creates an empty instance ready for ReadData
type Constructor func() wire.DataSerializable

// IdentifiedConstructor creates an empty instance ready for ReadData
type IdentifiedConstructor func() wire.IdentifiedDataSerializable

// TypeKey identifies a type by factory and class id
type TypeKey struct {
	FactoryID int32
	ClassID   int32
}

func (k TypeKey) String() string {
	return fmt.Sprintf("factory %d, type %d", k.FactoryID, k.ClassID)
}

// --------------------------------------------------------------------------
// TypeRegistry
// --------------------------------------------------------------------------

// TypeRegistry maps type names to constructors and concrete Go types back
// to names. It is filled before a codec is built and only read afterwards.
type TypeRegistry struct {
	byName *xsync.MapOf[string, Constructor]
	byType *xsync.MapOf[reflect.Type, string]
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byName: xsync.NewMapOf[string, Constructor](),
		byType: xsync.NewMapOf[reflect.Type, string](),
	}
}

// Register adds a constructor under name. The Go type of the constructed
// value is recorded too, so encoders can resolve the name of an object.
func (r *TypeRegistry) Register(name string, ctor Constructor) error {
	if name == "" {
		return fmt.Errorf("type name must not be empty")
	}
	if ctor == nil {
		return fmt.Errorf("constructor for %q must not be nil", name)
	}
	typ := reflect.TypeOf(ctor())
	if _, loaded := r.byName.LoadOrStore(name, ctor); loaded {
		return fmt.Errorf("type name %q already registered", name)
	}
	if existing, loaded := r.byType.LoadOrStore(typ, name); loaded {
		r.byName.Delete(name)
		return fmt.Errorf("type %s already registered as %q", typ, existing)
	}
	return nil
}

// Lookup returns the constructor registered under name
func (r *TypeRegistry) Lookup(name string) (Constructor, bool) {
	return r.byName.Load(name)
}

// NameOf returns the name registered for the concrete type of obj
func (r *TypeRegistry) NameOf(obj any) (string, bool) {
	return r.byType.Load(reflect.TypeOf(obj))
}

// Size returns the number of registered types
func (r *TypeRegistry) Size() int {
	return r.byName.Size()
}

// --------------------------------------------------------------------------
// FactoryRegistry
// --------------------------------------------------------------------------

// FactoryRegistry maps (factoryId, classId) pairs to constructors
type FactoryRegistry struct {
	m *xsync.MapOf[TypeKey, IdentifiedConstructor]
}

// NewFactoryRegistry creates an empty registry
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{m: xsync.NewMapOf[TypeKey, IdentifiedConstructor]()}
}

// Register adds a constructor under the given ids
func (r *FactoryRegistry) Register(factoryID, classID int32, ctor IdentifiedConstructor) error {
	if ctor == nil {
		return fmt.Errorf("constructor for factory %d, type %d must not be nil", factoryID, classID)
	}
	key := TypeKey{FactoryID: factoryID, ClassID: classID}
	if _, loaded := r.m.LoadOrStore(key, ctor); loaded {
		return fmt.Errorf("%s already registered", key)
	}
	return nil
}

// Lookup returns the constructor registered under the given ids
func (r *FactoryRegistry) Lookup(factoryID, classID int32) (IdentifiedConstructor, bool) {
	return r.m.Load(TypeKey{FactoryID: factoryID, ClassID: classID})
}

// Size returns the number of registered types
func (r *FactoryRegistry) Size() int {
	return r.m.Size()
}

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

// DefaultTypeRegistry returns a registry that knows SampleObject
func DefaultTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	// cannot fail on an empty registry
	_ = r.Register(payload.SampleTypeName, func() wire.DataSerializable {
		return payload.NewSampleObject()
	})
	return r
}

// DefaultFactoryRegistry returns a registry that knows SampleObject
func DefaultFactoryRegistry() *FactoryRegistry {
	r := NewFactoryRegistry()
	_ = r.Register(payload.SampleFactoryID, payload.SampleClassID, func() wire.IdentifiedDataSerializable {
		return payload.NewSampleObject()
	})
	return r
}
