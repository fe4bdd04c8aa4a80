package engine

import (
	"context"
	"fmt"

	"admin-backend/internal/metadata"
)

// ModalState is the orchestrator's modal sub-state. At most one modal is open
// at a time; opening a modal while another is open replaces the previous one.
type ModalState string

const (
	ModalClosed ModalState = "closed"
	ModalCreate ModalState = "create"
	ModalEdit   ModalState = "edit"
)

// NotificationKind discriminates success from error notices.
type NotificationKind string

const (
	NoticeSuccess NotificationKind = "success"
	NoticeError   NotificationKind = "error"
)

// Notification is the single dismissible notice shown to the user. Success
// and error are one value with a kind discriminant, set and cleared
// atomically, never a pair of boolean flags.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Confirmer is the out-of-band yes/no gate for destructive actions. It is
// external to this core; a nil Confirmer approves everything.
type Confirmer func(prompt string) bool

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	PageSize       int
	ValidationMode ValidationMode
	Confirm        Confirmer
}

// Manager is the page-level state machine for the management view. It
// composes a table view and a form session over two backing collections,
// owns the transient cached copy of the active collection, and replaces that
// copy wholesale after every successful mutation — no partial local patching,
// so the cache can never diverge from the store.
//
// The manager is single-threaded by design: it models one UI event loop and
// expects its caller to serialize calls.
type Manager struct {
	users EntityStore
	posts PostStore
	opts  ManagerOptions

	kind   metadata.Kind
	desc   metadata.Descriptor
	data   []map[string]any
	table  *TableView
	form   *FormSession
	modal  ModalState
	editID string
	notice *Notification
}

// NewManager creates a manager over the two collections. The initial kind is
// post; call Load to fetch the first collection.
func NewManager(users EntityStore, posts PostStore, opts ManagerOptions) *Manager {
	desc, _ := metadata.DescriptorFor(metadata.KindPost)
	m := &Manager{
		users: users,
		posts: posts,
		opts:  opts,
		kind:  metadata.KindPost,
		desc:  desc,
		modal: ModalClosed,
	}
	m.table = NewTableView(nil, desc.Columns(), opts.PageSize)
	return m
}

func (m *Manager) Kind() metadata.Kind          { return m.kind }
func (m *Manager) Data() []map[string]any       { return m.data }
func (m *Manager) Table() *TableView            { return m.table }
func (m *Manager) Form() *FormSession           { return m.form }
func (m *Manager) Modal() ModalState            { return m.modal }
func (m *Manager) EditID() string               { return m.editID }
func (m *Manager) Notification() *Notification  { return m.notice }
func (m *Manager) Stats() metadata.StatsSummary { return m.desc.Stats(m.data) }

// DismissNotification clears the current notice.
func (m *Manager) DismissNotification() { m.notice = nil }

func (m *Manager) store() EntityStore {
	if m.kind == metadata.KindUser {
		return m.users
	}
	return m.posts
}

func (m *Manager) kindLabel() string {
	if m.kind == metadata.KindUser {
		return "User"
	}
	return "Post"
}

func (m *Manager) notifySuccess(msg string) {
	m.notice = &Notification{Kind: NoticeSuccess, Message: msg}
}

func (m *Manager) notifyError(err error, fallback string) {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	m.notice = &Notification{Kind: NoticeError, Message: msg}
}

func (m *Manager) confirm(prompt string) bool {
	if m.opts.Confirm == nil {
		return true
	}
	return m.opts.Confirm(prompt)
}

// Load fetches the active kind's collection and replaces the cached copy.
// The table view keeps its interaction state across reloads.
func (m *Manager) Load(ctx context.Context) error {
	rows, err := m.store().GetAll(ctx)
	if err != nil {
		m.notifyError(err, "Failed to load data")
		return err
	}
	m.data = rows
	m.table.SetRows(rows)
	return nil
}

// SetKind switches the active entity kind: table view state and any open form
// session are discarded, the modal closes, and the new collection is loaded.
// No state from the previous kind survives the switch.
func (m *Manager) SetKind(ctx context.Context, kind metadata.Kind) error {
	if kind == m.kind {
		return nil
	}
	desc, err := metadata.DescriptorFor(kind)
	if err != nil {
		return err
	}
	m.kind = kind
	m.desc = desc
	m.data = nil
	m.form = nil
	m.modal = ModalClosed
	m.editID = ""
	m.table = NewTableView(nil, desc.Columns(), m.opts.PageSize)
	return m.Load(ctx)
}

// OpenCreate opens the create modal with a fresh form session, replacing any
// modal already open.
func (m *Manager) OpenCreate() error {
	form, err := NewFormSession(m.kind, m.store(), m.opts.ValidationMode)
	if err != nil {
		return err
	}
	form.OpenCreate()
	m.form = form
	m.modal = ModalCreate
	m.editID = ""
	return nil
}

// OpenEdit opens the edit modal for the cached row with the given id,
// replacing any modal already open.
func (m *Manager) OpenEdit(id string) error {
	var target map[string]any
	for _, row := range m.data {
		if CellString(row["id"]) == id {
			target = row
			break
		}
	}
	if target == nil {
		return NotFoundError(string(m.kind), id)
	}
	form, err := NewFormSession(m.kind, m.store(), m.opts.ValidationMode)
	if err != nil {
		return err
	}
	form.OpenEdit(target)
	m.form = form
	m.modal = ModalEdit
	m.editID = id
	return nil
}

// CloseModal discards the form session without submitting.
func (m *Manager) CloseModal() {
	m.form = nil
	m.modal = ModalClosed
	m.editID = ""
}

// SubmitForm submits the open form session. Validation errors keep the modal
// open with the errors cached on the session and the store untouched. A store
// failure keeps the modal open with the values intact for retry and surfaces
// the failure as an error notice. Success closes the modal, reloads the
// collection and surfaces a success notice.
func (m *Manager) SubmitForm(ctx context.Context) error {
	if m.form == nil {
		return fmt.Errorf("no form session open")
	}

	creating := m.form.Mode() == FormCreate

	_, errs, err := m.form.Submit(ctx)
	if len(errs) > 0 {
		return ValidationFailed(errs)
	}
	if err != nil {
		if creating {
			m.notifyError(err, "Create failed")
		} else {
			m.notifyError(err, "Update failed")
		}
		return err
	}

	m.CloseModal()
	if loadErr := m.Load(ctx); loadErr != nil {
		return loadErr
	}
	if creating {
		m.notifySuccess(fmt.Sprintf("%s created", m.kindLabel()))
	} else {
		m.notifySuccess(fmt.Sprintf("%s updated", m.kindLabel()))
	}
	return nil
}

// Delete removes one entity after out-of-band confirmation, then reloads.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if !m.confirm("Delete this item?") {
		return nil
	}
	if err := m.store().Delete(ctx, id); err != nil {
		m.notifyError(err, "Delete failed")
		return err
	}
	if err := m.Load(ctx); err != nil {
		return err
	}
	m.notifySuccess("Deleted")
	return nil
}

// StatusAction runs a post status transition (publish, archive or restore)
// after out-of-band confirmation. On failure the collection is NOT reloaded;
// the failure message is surfaced verbatim and the cached rows keep showing
// the last known state.
func (m *Manager) StatusAction(ctx context.Context, id string, action string) error {
	if m.kind != metadata.KindPost {
		return fmt.Errorf("status action %q is only defined for posts", action)
	}
	if !m.confirm(fmt.Sprintf("%s this post?", action)) {
		return nil
	}

	var err error
	switch action {
	case "publish":
		_, err = m.posts.Publish(ctx, id)
	case "archive":
		_, err = m.posts.Archive(ctx, id)
	case "restore":
		_, err = m.posts.Restore(ctx, id)
	default:
		return fmt.Errorf("unknown status action: %s", action)
	}

	if err != nil {
		m.notifyError(err, "The operation failed")
		return err
	}

	if err := m.Load(ctx); err != nil {
		return err
	}
	switch action {
	case "publish":
		m.notifySuccess("Published")
	case "archive":
		m.notifySuccess("Archived")
	default:
		m.notifySuccess("Restored")
	}
	return nil
}
