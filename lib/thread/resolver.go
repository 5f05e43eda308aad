// Package thread finds the message a reply answers, in the reply's own
// folder.
package thread

import (
	"context"
	"fmt"

	"git.sr.ht/~hrtools/hrreject/lib/iterator"
	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/parse"
	"git.sr.ht/~hrtools/hrreject/models"
)

// Pool is the part of a mail store the resolver needs.
type Pool interface {
	QueryByMessageID(ctx context.Context, id string) ([]*models.MessageInfo, error)
	ListMessages(ctx context.Context, folder string) (*models.Page, error)
	ContinueList(ctx context.Context, token string) (*models.Page, error)
}

// ThreadID returns the message-id a reply points at: the first id of the
// References header, or of In-Reply-To when there is no References header.
func ThreadID(headers models.Header) string {
	value := headers.Get("references")
	if len(headers.Values("references")) == 0 {
		value = headers.Get("in-reply-to")
	}
	return parse.FirstMsgID(value)
}

// Resolve returns the original message reply answers, or nil if it cannot
// be found. Threading headers win over subjects: when the threading id is
// known to the pool the folder is never listed. Otherwise the reply's folder
// is scanned page by page for the first other message with the same
// normalized subject.
//
// The returned error is only ever an error of the pool itself.
func Resolve(
	ctx context.Context, reply *models.MessageInfo,
	headers models.Header, pool Pool,
) (*models.MessageInfo, error) {
	if id := ThreadID(headers); id != "" {
		found, err := pool.QueryByMessageID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("query message-id %q: %w", id, err)
		}
		if len(found) > 0 {
			log.Debugf("resolved %d by message-id %s", reply.Uid, id)
			return found[0], nil
		}
		log.Debugf("message-id %s not found, falling back to subject", id)
	}

	subject := Normalize(reply.Subject)
	pages := iterator.NewPages(
		func(ctx context.Context) (*models.Page, error) {
			return pool.ListMessages(ctx, reply.Folder)
		},
		pool.ContinueList,
	)
	for pages.Next(ctx) {
		for _, msg := range pages.Page().Messages {
			if msg.Uid == reply.Uid {
				continue
			}
			if Normalize(msg.Subject) == subject {
				log.Debugf("resolved %d by subject %q after %d page(s)",
					reply.Uid, subject, pages.Fetched())
				return msg, nil
			}
		}
	}
	if err := pages.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", reply.Folder, err)
	}
	return nil, nil
}
