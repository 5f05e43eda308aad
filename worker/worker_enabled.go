package worker

// the following backends are always enabled
import (
	_ "git.sr.ht/~hrtools/hrreject/worker/maildir"
	_ "git.sr.ht/~hrtools/hrreject/worker/mbox"
)
