// Package cli provides the dock command-line interface.
// This file re-exports internal packages for applications embedding dock.
package cli

import (
	"github.com/zot/dock/internal/dock"
	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/logging"
	"github.com/zot/dock/internal/script"
	"github.com/zot/dock/internal/serializer"
	"github.com/zot/dock/internal/storage"
)

// Re-export layout and manager types
type (
	Manager    = dock.Manager
	Binder     = dock.Binder
	Root       = layout.Root
	Anchorable = layout.Anchorable
	Document   = layout.Document
	Content    = layout.Content
	// Serializer types for custom hosts
	Serializer  = serializer.Serializer
	Host        = serializer.Host
	Codec       = serializer.Codec
	Request     = serializer.Request
	Response    = serializer.Response
	ResolveFunc = serializer.ResolveFunc
	// Storage types
	StorageBackend = storage.Backend
	LayoutData     = storage.LayoutData
	LuaResolver    = script.Resolver
)

// Re-export constructors
var (
	NewManager        = dock.New
	NewSerializer     = serializer.New
	CodecFor          = serializer.CodecFor
	OpenStorage       = storage.Open
	LoadLuaResolver   = script.Load
	NewLogger         = logging.New
	NewRoot           = layout.NewRoot
	NewAnchorable     = layout.NewAnchorable
	NewDocument       = layout.NewDocument
	WithBinder        = dock.WithBinder
	WithStorage       = dock.WithStorage
	WithResolver      = dock.WithResolver
	WithCodec         = dock.WithCodec
	WithManagerLogger = dock.WithLogger
)
