// Package app runs the reject and pool actions against the configured
// accounts.
package app

import (
	"context"
	"fmt"

	"github.com/emersion/go-message/mail"

	"git.sr.ht/~hrtools/hrreject/lib/applicant"
	"git.sr.ht/~hrtools/hrreject/lib/compose"
	"git.sr.ht/~hrtools/hrreject/lib/folders"
	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/templates"
	"git.sr.ht/~hrtools/hrreject/lib/thread"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// Options are the compose settings of a run.
type Options struct {
	Compose      compose.Options
	Template     string
	TemplateDirs []string
	DateFormat   string
}

type App struct {
	accounts []*types.Account
	opts     Options
}

func New(accounts []*types.Account, opts Options) *App {
	return &App{accounts: accounts, opts: opts}
}

// Result tells what a run did. Steps that were skipped leave their fields
// empty.
type Result struct {
	Selected    *models.MessageInfo
	Original    *models.MessageInfo
	Applicant   *models.Applicant
	Draft       models.UID
	Destination *folders.Match
	Moved       []models.UID
}

// Run performs action on the message sel refers to. A message, original or
// folder that cannot be found skips the remaining steps without an error.
func (a *App) Run(ctx context.Context, action Action, sel Selection) (*Result, error) {
	res := &Result{}
	selected, err := selectMessage(ctx, a.accounts, sel)
	if err != nil {
		return nil, fmt.Errorf("could not select %s: %w", sel, err)
	}
	if selected == nil {
		log.Infof("no message selected for %s", sel)
		return res, nil
	}
	res.Selected = selected.info
	log.Debugf("%s: selected %q in %s:%s", action.Name,
		selected.info.Subject, selected.acct.Name, selected.info.Folder)

	toMove := []*located{selected}
	if action.Compose {
		original, err := a.reject(ctx, selected, res)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return res, nil
		}
		if action.MoveOriginal {
			toMove = append(toMove, original)
		}
	}

	match, err := folders.Find(ctx, a.accounts, action.Policy)
	if err != nil {
		return nil, err
	}
	if match == nil {
		log.Warnf("could not find folder %q, skipping move", action.Policy)
		if s := folders.Suggest(ctx, a.accounts, action.Policy, 3); len(s) > 0 {
			log.Infof("closest folders: %v", s)
		}
		return res, nil
	}
	res.Destination = match
	moved, err := moveAll(ctx, toMove, match)
	res.Moved = moved
	if err != nil {
		return res, err
	}
	log.Infof("%s: moved %d messages to %s:%s", action.Name, len(moved),
		match.Account.Name, match.Folder.Path)
	return res, nil
}

// reject resolves the original application of selected and saves a
// rejection draft. It returns nil when there is no original.
func (a *App) reject(ctx context.Context, selected *located, res *Result) (*located, error) {
	full, err := selected.acct.Backend.FullMessage(ctx, selected.info.Uid)
	if err != nil {
		return nil, fmt.Errorf("could not read selected message: %w", err)
	}
	pool := newAccountPool(a.accounts, selected.acct)
	info, err := thread.Resolve(ctx, selected.info, full.Headers, pool)
	if err != nil {
		return nil, fmt.Errorf("could not resolve original application: %w", err)
	}
	if info == nil {
		log.Infof("could not locate original application of %q", selected.info.Subject)
		return nil, nil
	}
	original := &located{acct: pool.owner(info.Uid), info: info}
	if original.acct == nil {
		original.acct = selected.acct
	}
	res.Original = info

	appFull, err := original.acct.Backend.FullMessage(ctx, info.Uid)
	if err != nil {
		return nil, fmt.Errorf("could not read original application: %w", err)
	}
	person := applicant.Extract(appFull.Headers.Get("from"), info.From, appFull.Body)
	res.Applicant = person
	log.Debugf("applicant: %#v", *person)

	data := templates.NewData(person, info, a.opts.Compose.From, a.opts.DateFormat)
	body, err := templates.Render(a.opts.Template, a.opts.TemplateDirs, data)
	if err != nil {
		return nil, fmt.Errorf("could not render template: %w", err)
	}
	var to string
	if person.Email != "" {
		to = (&mail.Address{Name: person.Name, Address: person.Email}).String()
	} else {
		log.Warnf("no address for %s, draft has no recipient", person.Name)
	}
	draft := compose.Begin(ctx, a.opts.Compose, info)
	err = draft.SetFields(ctx, compose.Fields{
		To:            to,
		Subject:       templates.ReplySubject(data),
		HTMLBody:      body.HTML,
		PlainTextBody: body.PlainText,
	})
	if err != nil {
		return nil, err
	}
	if err := draft.Edit(ctx); err != nil {
		return nil, err
	}
	res.Draft, err = draft.Save(ctx, selected.acct, selected.acct.Drafts)
	if err != nil {
		return nil, err
	}
	return original, nil
}
