package hypothesis

import "testing"

func w(start, end float64, text string) Word {
	return Word{Start: start, End: end, Text: text}
}

func TestBufferFlushCommitsLongestCommonPrefix(t *testing.T) {
	var b Buffer

	b.Insert([]Word{w(0, 1, "hello"), w(1, 2, "world")}, 0)
	if got := b.Flush(); len(got) != 0 {
		t.Fatalf("first flush should commit nothing, got %v", got)
	}

	b.Insert([]Word{w(0, 1, "hello"), w(1, 2, "world"), w(2, 3, "again")}, 0)
	commit := b.Flush()
	if len(commit) != 2 {
		t.Fatalf("expected 2 words committed, got %d: %v", len(commit), commit)
	}
	if commit[0].Text != "hello" || commit[1].Text != "world" {
		t.Errorf("unexpected commit content: %v", commit)
	}

	complete := b.Complete()
	if len(complete) != 1 || complete[0].Text != "again" {
		t.Errorf("expected 'again' left in buffer, got %v", complete)
	}
}

func TestBufferInsertDropsOverlapBeforeLastCommit(t *testing.T) {
	var b Buffer
	b.Insert([]Word{w(0, 1, "a"), w(1, 2, "b")}, 0)
	b.Flush()
	b.Insert([]Word{w(1, 2, "b"), w(2, 3, "c")}, 0)
	b.Flush()

	b.Insert([]Word{w(-1, 0, "ghost"), w(2, 3, "c"), w(3, 4, "d")}, 0)
	for _, word := range b.pending {
		if word.Text == "ghost" {
			t.Errorf("word before last committed time should have been dropped")
		}
	}
}

func TestBufferSuppressesDuplicateTailNGram(t *testing.T) {
	var b Buffer
	b.Insert([]Word{w(0, 1, "one"), w(1, 2, "two")}, 0)
	b.Flush()
	b.Insert([]Word{w(0, 1, "one"), w(1, 2, "two")}, 0)
	b.Flush() // commits "one two"; last committed time is now 2

	// "two" is re-emitted just after the last committed time, as happens
	// after a trim; it must be dropped as a duplicate of the committed tail.
	b.Insert([]Word{w(2, 2.5, "two"), w(2.5, 3, "three")}, 0)

	found := false
	for _, word := range b.pending {
		if word.Text == "two" {
			found = true
		}
	}
	if found {
		t.Errorf("expected duplicate tail word 'two' to be suppressed from pending, got %v", b.pending)
	}
}

func TestBufferPopCommitted(t *testing.T) {
	var b Buffer
	b.Insert([]Word{w(0, 1, "a"), w(1, 2, "b")}, 0)
	b.Flush()
	b.Insert([]Word{w(0, 1, "a"), w(1, 2, "b"), w(2, 3, "c")}, 0)
	b.Flush()

	b.PopCommitted(1)
	if len(b.committed) != 1 || b.committed[0].Text != "b" {
		t.Errorf("expected only 'b' to remain committed after pop at t=1, got %v", b.committed)
	}
}
