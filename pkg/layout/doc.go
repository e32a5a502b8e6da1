// Package layout provides the page frame every route renders into.
//
// A Layout holds two slots: a persistent header slot carrying the shared
// navigation bar from package navsync, and a replaceable content slot that
// pages are mounted into:
//
//	div.layout-wrapper
//	├── div#layout-header      shared NavBar (survives page changes)
//	└── div[role=main].<ContainerClass>
//	    └── div#layout-slot    page content (MountChild / AppendChild)
//
// Re-rendering the layout (UpdateOptions) keeps both the bar and whatever
// is in the content slot. Unmounting the layout detaches the bar without
// destroying it, so the next layout can adopt the same instance.
package layout
