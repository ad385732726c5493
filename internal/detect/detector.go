// Package detect finds candidate email input fields in HTML documents, the
// way the extension content script scans a page: one full scan on
// activation, then incremental scans of subtrees reported by a Watcher.
package detect

import (
	"sync"

	"golang.org/x/net/html"
)

// Options configures a Detector.
type Options struct {
	// Enabled gates the whole detector. Detection stays off until
	// first-run setup completes.
	Enabled bool

	// ExtraSkipHosts extends the built-in skip list.
	ExtraSkipHosts []string

	// OnDetect, if set, is invoked once per newly detected field.
	OnDetect func(Field)
}

// Detector tracks detected email fields for a single document. The detected
// set is identity-based (node pointers), so a field is never rescanned.
type Detector struct {
	opts Options

	mu       sync.Mutex
	active   bool
	detected map[*html.Node]Field
	order    []*html.Node

	watcher *Watcher
	done    chan struct{}
}

// New creates a Detector.
func New(opts Options) *Detector {
	return &Detector{
		opts:     opts,
		detected: make(map[*html.Node]Field),
	}
}

// Activate scans doc for email fields, unless the detector is disabled or
// hostname is on the skip list. It returns whether the detector is active.
// Call it once per document, with the top-level document root.
func (d *Detector) Activate(hostname string, doc *html.Node) bool {
	if !d.opts.Enabled {
		return false
	}
	if IsSkippedHost(hostname, d.opts.ExtraSkipHosts...) {
		return false
	}
	d.mu.Lock()
	d.active = true
	d.mu.Unlock()
	d.Scan(doc)
	return true
}

// Scan walks the subtree rooted at n and records every new viable email
// field. It returns the fields added by this scan.
func (d *Detector) Scan(n *html.Node) []Field {
	if n == nil || !d.isActive() {
		return nil
	}

	var added []Field
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isEmailInput(n) {
			if f, ok := d.add(n); ok {
				added = append(added, f)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return added
}

func (d *Detector) isActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// add records n if it is new and viable. The OnDetect callback runs outside
// the lock, so it may call back into Contains or Fields.
func (d *Detector) add(n *html.Node) (Field, bool) {
	d.mu.Lock()
	if _, seen := d.detected[n]; seen {
		d.mu.Unlock()
		return Field{}, false
	}
	if !isViable(n) {
		d.mu.Unlock()
		return Field{}, false
	}
	f := newField(n)
	d.detected[n] = f
	d.order = append(d.order, n)
	d.mu.Unlock()

	if d.opts.OnDetect != nil {
		d.opts.OnDetect(f)
	}
	return f, true
}

// Observe consumes mutations from w, incrementally scanning inserted
// subtrees, until the watcher closes or Destroy is called.
func (d *Detector) Observe(w *Watcher) {
	if !d.isActive() {
		return
	}
	d.watcher = w
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		for m := range w.Events() {
			for _, n := range m.Added {
				d.Scan(n)
			}
		}
	}()
}

// Contains reports whether n was previously detected. The creation prompt
// only opens for detected fields.
func (d *Detector) Contains(n *html.Node) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.detected[n]
	return ok
}

// Fields returns all detected fields in detection order.
func (d *Detector) Fields() []Field {
	d.mu.Lock()
	defer d.mu.Unlock()
	fields := make([]Field, 0, len(d.order))
	for _, n := range d.order {
		fields = append(fields, d.detected[n])
	}
	return fields
}

// Destroy disconnects the watcher and waits for the observer goroutine to
// finish, so no consumer outlives the document. Mutations already published
// are drained and scanned before the detector deactivates.
func (d *Detector) Destroy() {
	if d.watcher != nil {
		d.watcher.Close()
		<-d.done
		d.watcher = nil
	}
	d.mu.Lock()
	d.active = false
	d.mu.Unlock()
}
