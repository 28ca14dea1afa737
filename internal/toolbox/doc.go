// Package toolbox is the tool registry a bot uses to pull services out of
// installed extensions. Extensions are resolved lazily through a Loader, their
// setup hook runs once per registry, and registered services are looked up
// by name through typed accessors.
package toolbox
