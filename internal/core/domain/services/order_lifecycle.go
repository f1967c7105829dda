package services

import (
	"fmt"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"
)

// Rule is one row of the transition table: which role may move an order from
// From to To, and whether the actor must also be the order's own salesman.
type Rule struct {
	From      order.Status
	To        order.Status
	Role      staff.Role
	OwnerOnly bool
	Action    string
}

// OrderLifecycle is the single authorization table of the order workflow.
//
//	From          To            Role        Owner only
//	CREATED       DISPATCHED    Factory     no
//	DISPATCHED    ACKNOWLEDGED  Salesman    yes
//	ACKNOWLEDGED  VERIFIED      Accountant  no
//	ACKNOWLEDGED  FLAGGED       Accountant  no
//	VERIFIED      INVOICED      Salesman    yes
//
// Creation (entering CREATED) is reserved for salesmen and checked by
// AuthorizeCreate. Rules are keyed by target status because every target has
// exactly one predecessor.
type OrderLifecycle struct {
	rules map[order.Status]Rule
}

// NewOrderLifecycle returns the lifecycle with the bakery's transition table.
func NewOrderLifecycle() OrderLifecycle {
	rules := []Rule{
		{From: order.Created, To: order.Dispatched, Role: staff.Factory, Action: audit.ActionDispatchOrder},
		{From: order.Dispatched, To: order.Acknowledged, Role: staff.Salesman, OwnerOnly: true, Action: audit.ActionAcknowledge},
		{From: order.Acknowledged, To: order.Verified, Role: staff.Accountant, Action: audit.ActionVerify},
		{From: order.Acknowledged, To: order.Flagged, Role: staff.Accountant, Action: audit.ActionFlag},
		{From: order.Verified, To: order.Invoiced, Role: staff.Salesman, OwnerOnly: true, Action: audit.ActionUploadInvoice},
	}

	l := OrderLifecycle{rules: make(map[order.Status]Rule, len(rules))}
	for _, r := range rules {
		l.rules[r.To] = r
	}
	return l
}

// Rule returns the rule for entering target.
func (l OrderLifecycle) Rule(target order.Status) (Rule, bool) {
	r, ok := l.rules[target]
	return r, ok
}

// Rules lists the table in lifecycle order.
func (l OrderLifecycle) Rules() []Rule {
	out := make([]Rule, 0, len(l.rules))
	for _, status := range order.Statuses() {
		if r, ok := l.rules[status]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Authorize checks, in this order, that the actor holds the rule's role, that
// the actor owns the order when the rule requires it, and that the order is in
// the rule's source status. It returns the matching rule.
//
// Errors:
//   - InvalidStateTransitionError when no rule leads to target
//   - ForbiddenError on a role or ownership mismatch
//   - InvalidStateTransitionError when the order is not in the source status
func (l OrderLifecycle) Authorize(actor *staff.User, o *order.Order, target order.Status) (Rule, error) {
	if err := o.Validate(); err != nil {
		return Rule{}, err
	}

	rule, ok := l.rules[target]
	if !ok {
		return Rule{}, errs.NewInvalidStateTransitionError(o.Status(), target)
	}

	if actor == nil || !actor.HasRole(rule.Role) {
		return Rule{}, errs.NewForbiddenError(rule.Action, fmt.Sprintf("requires an active %s", rule.Role))
	}

	if rule.OwnerOnly && !o.IsOwnedBy(actor.ID()) {
		return Rule{}, errs.NewForbiddenError(rule.Action, "only the order's salesman may do this")
	}

	if o.Status() != rule.From {
		return Rule{}, errs.NewInvalidStateTransitionError(o.Status(), target)
	}

	return rule, nil
}

// AuthorizeCreate checks that actor may place orders: an active salesman.
// Whether the salesman has a route and no pending acknowledgements is checked
// by the caller against stored data.
func (l OrderLifecycle) AuthorizeCreate(actor *staff.User) error {
	if actor == nil || !actor.HasRole(staff.Salesman) {
		return errs.NewForbiddenError(audit.ActionCreateOrder, "requires an active Salesman")
	}
	return nil
}

// AuthorizeItemsEdit checks that actor is the order's salesman. The status
// and lock checks are part of order.ReplaceItems.
func (l OrderLifecycle) AuthorizeItemsEdit(actor *staff.User, o *order.Order) error {
	if actor == nil || !actor.HasRole(staff.Salesman) {
		return errs.NewForbiddenError(audit.ActionUpdateOrderItems, "requires an active Salesman")
	}
	if !o.IsOwnedBy(actor.ID()) {
		return errs.NewForbiddenError(audit.ActionUpdateOrderItems, "only the order's salesman may do this")
	}
	return nil
}
