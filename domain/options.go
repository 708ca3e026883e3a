package domain

import "os"

// ConverterOptions configures a converter.
type ConverterOptions struct {
	// Registry resolves application ObjectID wrapper types. May be
	// nil, in which case only [bval.ObjectID] itself is recognized.
	Registry Registry
}

// ConverterOption configures converter behavior through the functional
// options pattern.
type ConverterOption func(*ConverterOptions)

// WithRegistry sets the wrapper registry for the converter.
func WithRegistry(r Registry) ConverterOption {
	return func(o *ConverterOptions) { o.Registry = r }
}

// CursorOptions configures a cursor.
type CursorOptions struct {
	Converter Converter
	Decoder   Decoder
	// OnError receives every error that moves the cursor to
	// StateFailed. The datastore uses it to feed the last-error
	// channel.
	OnError func(error)
}

// CursorOption configures cursor behavior through the functional options
// pattern.
type CursorOption func(*CursorOptions)

// WithCursorConverter sets the converter used by Scan.
func WithCursorConverter(c Converter) CursorOption {
	return func(o *CursorOptions) { o.Converter = c }
}

// WithCursorDecoder sets the decoder used by Scan.
func WithCursorDecoder(d Decoder) CursorOption {
	return func(o *CursorOptions) { o.Decoder = d }
}

// WithCursorOnError sets the failure observer.
func WithCursorOnError(f func(error)) CursorOption {
	return func(o *CursorOptions) { o.OnError = f }
}

// EngineOptions configures the reference engine.
type EngineOptions struct {
	// Path enables the persistent store. Empty means in-memory only.
	Path         string
	FileMode     os.FileMode
	Serializer   Serializer
	Deserializer Deserializer
	TimeGetter   TimeGetter
	IDGenerator  IDGenerator
}

// EngineOption configures engine behavior through the functional options
// pattern.
type EngineOption func(*EngineOptions)

// WithEnginePath sets the file backing the engine's store.
func WithEnginePath(p string) EngineOption {
	return func(o *EngineOptions) { o.Path = p }
}

// WithEngineFileMode sets the permissions of the store file.
func WithEngineFileMode(m os.FileMode) EngineOption {
	return func(o *EngineOptions) { o.FileMode = m }
}

// WithEngineSerializer sets the row serializer.
func WithEngineSerializer(s Serializer) EngineOption {
	return func(o *EngineOptions) { o.Serializer = s }
}

// WithEngineDeserializer sets the row deserializer.
func WithEngineDeserializer(d Deserializer) EngineOption {
	return func(o *EngineOptions) { o.Deserializer = d }
}

// WithEngineTimeGetter sets the clock used for generated ids.
func WithEngineTimeGetter(t TimeGetter) EngineOption {
	return func(o *EngineOptions) { o.TimeGetter = t }
}

// WithEngineIDGenerator sets the ObjectID generator.
func WithEngineIDGenerator(g IDGenerator) EngineOption {
	return func(o *EngineOptions) { o.IDGenerator = g }
}

// DatastoreOptions configures the default [DB] implementation.
type DatastoreOptions struct {
	// Path enables persistence for the default engine. Empty means
	// in-memory only. Ignored when Engine is set.
	Path      string
	FileMode  os.FileMode
	Engine    Engine
	Converter Converter
	Decoder   Decoder
	// Registry is handed to the default converter; ignored when
	// Converter is set.
	Registry     Registry
	TimeGetter   TimeGetter
	IDGenerator  IDGenerator
	Serializer   Serializer
	Deserializer Deserializer
}

// DatastoreOption configures datastore behavior through the functional
// options pattern.
type DatastoreOption func(*DatastoreOptions)

// WithPath sets the file backing the default engine's store.
func WithPath(p string) DatastoreOption {
	return func(o *DatastoreOptions) { o.Path = p }
}

// WithFileMode sets the permissions of the store file.
func WithFileMode(m os.FileMode) DatastoreOption {
	return func(o *DatastoreOptions) { o.FileMode = m }
}

// WithEngine replaces the default engine.
func WithEngine(e Engine) DatastoreOption {
	return func(o *DatastoreOptions) { o.Engine = e }
}

// WithConverter sets the host value converter.
func WithConverter(c Converter) DatastoreOption {
	return func(o *DatastoreOptions) { o.Converter = c }
}

// WithDecoder sets the decoder used by cursor scanning.
func WithDecoder(d Decoder) DatastoreOption {
	return func(o *DatastoreOptions) { o.Decoder = d }
}

// WithDatastoreRegistry sets the ObjectID wrapper registry for the
// default converter.
func WithDatastoreRegistry(r Registry) DatastoreOption {
	return func(o *DatastoreOptions) { o.Registry = r }
}

// WithTimeGetter sets the clock used by the default engine.
func WithTimeGetter(t TimeGetter) DatastoreOption {
	return func(o *DatastoreOptions) { o.TimeGetter = t }
}

// WithIDGenerator sets the ObjectID generator used by the default
// engine.
func WithIDGenerator(g IDGenerator) DatastoreOption {
	return func(o *DatastoreOptions) { o.IDGenerator = g }
}

// WithSerializer sets the row serializer of the default engine.
func WithSerializer(s Serializer) DatastoreOption {
	return func(o *DatastoreOptions) { o.Serializer = s }
}

// WithDeserializer sets the row deserializer of the default engine.
func WithDeserializer(d Deserializer) DatastoreOption {
	return func(o *DatastoreOptions) { o.Deserializer = d }
}

// IDGeneratorOptions configures an ObjectID generator.
type IDGeneratorOptions struct {
	TimeGetter TimeGetter
}

// IDGeneratorOption configures generator behavior through the functional
// options pattern.
type IDGeneratorOption func(*IDGeneratorOptions)

// WithIDTimeGetter sets the clock embedded in generated ids.
func WithIDTimeGetter(t TimeGetter) IDGeneratorOption {
	return func(o *IDGeneratorOptions) { o.TimeGetter = t }
}
