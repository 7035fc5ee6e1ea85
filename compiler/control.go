package compiler

// doFrame is one entry of the DO/END label stack (C10 §4.10). exitLabels
// holds the label(s) a matching END must emit, in order, after the JMP to
// loopLabel; loopLabel is the "jump back to top" target for WHILE/TO loops
// (empty for a plain DO).
type doFrame struct {
	exitLabels []string
	loopLabel  string
	isCase     bool
}

// caseFrame is the side structure CASE statements maintain alongside their
// doFrame: the jump-table label, whether the first child body is still
// pending (suppresses end-of-body "JMP Lend" before any case exists), and
// caseLabels: the CASE exit label at index 0, followed by the ordered
// per-case body labels that become the table's DW entries.
type caseFrame struct {
	tableLabel string
	firstChild bool
	caseLabels []string
}

type ctrlStack struct {
	frames []doFrame
	cases  []*caseFrame // parallel stack, only non-nil entries for CASE frames
}

func newCtrlStack() *ctrlStack { return &ctrlStack{} }

func (s *ctrlStack) pushPlain() {
	s.frames = append(s.frames, doFrame{})
	s.cases = append(s.cases, nil)
}

func (s *ctrlStack) pushLoop(exitLabel, loopLabel string) {
	s.frames = append(s.frames, doFrame{exitLabels: []string{exitLabel}, loopLabel: loopLabel})
	s.cases = append(s.cases, nil)
}

func (s *ctrlStack) pushCase(exitLabel string, cf *caseFrame) {
	s.frames = append(s.frames, doFrame{exitLabels: []string{exitLabel}, isCase: true})
	s.cases = append(s.cases, cf)
}

// pop removes and returns the top frame, or an error if the stack is empty
// (an unmatched END, spec.md §7).
func (s *ctrlStack) pop() (doFrame, *caseFrame, error) {
	if len(s.frames) == 0 {
		return doFrame{}, nil, errorf("unmatched END")
	}
	n := len(s.frames) - 1
	f, cf := s.frames[n], s.cases[n]
	s.frames = s.frames[:n]
	s.cases = s.cases[:n]
	return f, cf, nil
}

func (s *ctrlStack) top() (*doFrame, *caseFrame) {
	if len(s.frames) == 0 {
		return nil, nil
	}
	n := len(s.frames) - 1
	return &s.frames[n], s.cases[n]
}

func (s *ctrlStack) empty() bool { return len(s.frames) == 0 }
func (s *ctrlStack) depth() int  { return len(s.frames) }
