package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/reactive"
)

// deliverOne pushes a single value into r, honoring the drop/retry rules:
// a delivery to an already-completed reactive is dropped (unless it is
// COMPLETED itself, which is idempotent), and a queue overflow is retried
// as a fresh stimulus rather than failing the cycle or blocking the
// producer.
func (nr *NetRef) deliverOne(r reactive.Reactive, rvt reactive.RVT) error {
	if rvt.Time.IsZero() {
		rvt.Time = time.Now()
	}
	if r.Completed() {
		if rvt.Value.IsCompleted() {
			return nil
		}
		return fmt.Errorf("%s: delivery to completed reactive dropped", r.Label())
	}

	_, err := r.Deliver(rvt)
	if err == nil && rvt.Value.IsCompleted() {
		nr.net.MarkCompleted(r)
	}
	if errors.Is(err, reactive.ErrQueueOverflow) {
		nr.Submit(&Stimulus{
			Label:      "retry:" + r.Label(),
			Deliveries: map[reactive.Reactive]reactive.RVT{r: rvt},
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", r.Label(), err)
	}
	return nil
}

// applyPendingResults folds Results carried directly on a Stimulus (e.g.
// graph edits from AddLinks/RemoveLinks) into the network exactly as if
// they had just been produced by a link.
func (nr *NetRef) applyPendingResults(results []*link.Result) {
	nr.dispatchOutputs(results, 0)
	nr.applyGraphEdits(results)
}

type evaluated struct {
	link   *link.Link
	result *link.Result
}

// runCycle drives one stimulus to quiescence: the deliver/evaluate/
// consume/propagate loop.
func (nr *NetRef) runCycle() {
	net := nr.net
	var pendingLinks []*link.Link
	fired := mapset.NewSet[reactive.ID]()

	for {
		var pendingReactives []reactive.Reactive
		for _, r := range net.AllTrackedReactives() {
			if r.Pending() {
				pendingReactives = append(pendingReactives, r)
			}
		}

		candidateSet := make(map[*link.Link]struct{})
		for _, l := range pendingLinks {
			candidateSet[l] = struct{}{}
		}
		for _, r := range pendingReactives {
			for l := range net.LinksForInput(r).Iter() {
				candidateSet[l] = struct{}{}
			}
		}

		var candidates []*link.Link
		for l := range candidateSet {
			if l.Ready() && !l.Dead() {
				candidates = append(candidates, l)
			}
		}
		if len(candidates) == 0 {
			// No link is ready to fire, but a reactive may still have
			// completed directly (engine.Complete on an already-drained
			// input) without ever making a link a candidate. Its
			// complete_fn still owes a run before the cycle can end.
			completeResults := nr.fireCompleteFns(0, fired)
			if len(completeResults) == 0 {
				return
			}
			nr.applyGraphEdits(completeResults)
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			li, lj := net.LinkLevel(candidates[i]), net.LinkLevel(candidates[j])
			if li != lj {
				return li < lj
			}
			return candidates[i].Seq() < candidates[j].Seq()
		})

		lowest := net.LinkLevel(candidates[0])
		var currentLinks []*link.Link
		pendingLinks = nil
		for _, l := range candidates {
			if net.LinkLevel(l) == lowest {
				currentLinks = append(currentLinks, l)
			} else {
				pendingLinks = append(pendingLinks, l)
			}
		}

		rvtMap := make(map[reactive.Reactive]reactive.RVT)
		for _, l := range currentLinks {
			for _, in := range l.Inputs {
				if _, ok := rvtMap[in]; ok {
					continue
				}
				if v, ok := in.NextValue(); ok {
					rvtMap[in] = v
				}
			}
		}

		evaluatedLinks := make([]evaluated, 0, len(currentLinks))
		for _, l := range currentLinks {
			evaluatedLinks = append(evaluatedLinks, nr.evaluateLink(l, rvtMap))
		}

		nr.consumeStage(evaluatedLinks, pendingLinks)

		allResults := make([]*link.Result, 0, len(evaluatedLinks))
		for _, ev := range evaluatedLinks {
			if ev.result != nil {
				allResults = append(allResults, ev.result)
			}
		}
		nr.dispatchOutputs(allResults, lowest)

		completeResults := nr.fireCompleteFns(lowest, fired)
		allResults = append(allResults, completeResults...)

		nr.applyGraphEdits(allResults)

		unchanged := len(completeResults) == 0
		for _, ev := range evaluatedLinks {
			if !resultIsNoop(ev.result) {
				unchanged = false
				break
			}
		}
		if unchanged {
			return
		}
	}
}

// resultIsNoop reports whether a link's Result left its inputs pending
// (NoConsume) without producing any output, graph edit, or alive-counter
// adjustment -- the "wait for the other input" shape a join combinator
// returns while it's still missing a value. A batch made entirely of
// these, with no complete_fn output either, makes no further progress
// possible and is the cycle's quiescence signal; a nil Result always
// consumes its inputs and therefore never counts as a no-op.
func resultIsNoop(res *link.Result) bool {
	if res == nil {
		return false
	}
	return res.NoConsume &&
		len(res.OutputRVTs) == 0 &&
		res.Add == nil &&
		res.RemoveBy == nil &&
		res.DontComplete == nil &&
		res.AllowComplete == nil
}

// consumeStage consumes each input of this round's evaluated links at most
// once, even when several evaluated links share it, deferring consumption
// when a strictly-higher-level pending link still needs the value.
func (nr *NetRef) consumeStage(evaluatedLinks []evaluated, pendingLinks []*link.Link) {
	deferredInputs := make(map[reactive.ID]struct{})
	for _, l := range pendingLinks {
		for _, in := range l.Inputs {
			deferredInputs[in.NetworkID()] = struct{}{}
		}
	}

	consumed := make(map[reactive.ID]struct{})
	for _, ev := range evaluatedLinks {
		if ev.result != nil && ev.result.NoConsume {
			continue
		}
		for _, in := range ev.link.Inputs {
			if _, deferred := deferredInputs[in.NetworkID()]; deferred {
				continue
			}
			if _, done := consumed[in.NetworkID()]; done {
				continue
			}
			consumed[in.NetworkID()] = struct{}{}
			in.Consume()
		}
	}
}

// evaluateLink runs a single link, synchronously or via its Executor.
// Panics and errors from the link-fn are caught and, if the link carries
// an ErrorFn, re-routed through it; otherwise they are logged and the
// link is treated as having produced no output.
func (nr *NetRef) evaluateLink(l *link.Link, rvtMap map[reactive.Reactive]reactive.RVT) evaluated {
	inputRVTs := make(map[reactive.Reactive]reactive.RVT, len(l.Inputs))
	for _, in := range l.Inputs {
		if v, ok := rvtMap[in]; ok {
			inputRVTs[in] = v
		}
	}
	input := link.Result{
		InputReactives:  l.Inputs,
		OutputReactives: l.Outputs(),
		InputRVTs:       inputRVTs,
	}

	if l.Executor != nil {
		return nr.evaluateAsync(l, input)
	}
	return evaluated{link: l, result: nr.runSync(l, input)}
}

func (nr *NetRef) evaluateAsync(l *link.Link, input link.Result) evaluated {
	outs := input.OutputReactives

	l.Executor.Run(l, input, nr, func(res *link.Result, err error) {
		if err != nil && l.ErrorFn != nil {
			errInput := input
			errInput.Err = err
			res, err = safeCall(link.Fn(l.ErrorFn), errInput)
		}
		follow := &link.Result{AllowComplete: append([]reactive.Reactive(nil), outs...)}
		if err != nil {
			nr.reportError(fmt.Errorf("async link %q: %w", l.Label, err))
		} else if res != nil {
			follow.OutputRVTs = res.OutputRVTs
			follow.Add = res.Add
			follow.RemoveBy = res.RemoveBy
			follow.DontComplete = res.DontComplete
			follow.AllowComplete = append(follow.AllowComplete, res.AllowComplete...)
		}
		nr.Submit(&Stimulus{
			Label:   l.Label + ":async-result",
			Results: []*link.Result{follow},
		})
	})

	// Placeholder result: outputs stay alive across the round trip, and
	// the link's inputs are consumed now since this cycle is done with
	// them regardless of when the async result lands.
	return evaluated{link: l, result: &link.Result{DontComplete: append([]reactive.Reactive(nil), outs...)}}
}

func (nr *NetRef) runSync(l *link.Link, input link.Result) *link.Result {
	res, err := safeCall(l.Fn, input)
	if err == nil {
		return res
	}
	if l.ErrorFn != nil {
		input.Err = err
		merged, ferr := safeCall(link.Fn(l.ErrorFn), input)
		if ferr != nil {
			nr.reportError(fmt.Errorf("link %q error_fn: %w", l.Label, ferr))
			return nil
		}
		return merged
	}
	nr.reportError(fmt.Errorf("link %q: %w", l.Label, err))
	return nil
}

func safeCall(fn link.Fn, input link.Result) (res *link.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(input)
}

// dispatchOutputs partitions each Result's OutputRVTs: COMPLETED-tagged
// values fold into the alive counter rather than being delivered
// literally; values whose target's level is unknown or strictly less
// than currentLevel are deferred to a later cycle; everything else is
// delivered immediately within this cycle.
func (nr *NetRef) dispatchOutputs(results []*link.Result, currentLevel int) {
	net := nr.net
	for _, res := range results {
		for target, rvt := range res.OutputRVTs {
			if rvt.Time.IsZero() {
				rvt.Time = time.Now()
			}
			if rvt.Value.IsCompleted() {
				if _, err := net.AdjustAlive(target, -1); err != nil {
					nr.reportError(err)
				}
				continue
			}

			lvl, known := net.Level(target)
			if !known || lvl < currentLevel {
				nr.Submit(&Stimulus{
					Label:      "upstream:" + target.Label(),
					Deliveries: map[reactive.Reactive]reactive.RVT{target: rvt},
				})
				continue
			}
			if err := nr.deliverOne(target, rvt); err != nil {
				nr.reportError(err)
			}
		}
	}
}

// fireCompleteFns runs the CompleteFn of every link that has a
// this-cycle-completed reactive as an input, folding the resulting
// Results' output dispatch immediately. fired tracks ids already
// processed earlier in the same cycle so a CompleteFn never runs twice
// for the same completion.
func (nr *NetRef) fireCompleteFns(currentLevel int, fired mapset.Set[reactive.ID]) []*link.Result {
	net := nr.net
	pending := net.CompletedThisCycle().Difference(fired)
	if pending.Cardinality() == 0 {
		return nil
	}

	var results []*link.Result
	for id := range pending.Iter() {
		fired.Add(id)
		r, ok := net.ResolveID(id)
		if !ok {
			continue
		}
		for l := range net.LinksForInput(r).Iter() {
			if l.CompleteFn == nil {
				continue
			}
			res, err := l.CompleteFn(l, r)
			if err != nil {
				nr.reportError(fmt.Errorf("link %q complete_fn: %w", l.Label, err))
				continue
			}
			if res != nil {
				results = append(results, res)
			}
		}
	}
	if len(results) > 0 {
		nr.dispatchOutputs(results, currentLevel)
	}
	return results
}

// applyGraphEdits folds Add/RemoveBy/DontComplete/AllowComplete from a
// batch of Results into the network, also removing any link with a
// completed input and folding removed links' CompleteOnRemove lists into
// the AllowComplete batch.
func (nr *NetRef) applyGraphEdits(results []*link.Result) {
	net := nr.net

	var predicates []func(*link.Link) bool
	var toAdd []*link.Link
	var dontComplete, allowComplete []reactive.Reactive
	for _, res := range results {
		if res.RemoveBy != nil {
			predicates = append(predicates, res.RemoveBy)
		}
		toAdd = append(toAdd, res.Add...)
		dontComplete = append(dontComplete, res.DontComplete...)
		allowComplete = append(allowComplete, res.AllowComplete...)
	}

	combined := func(l *link.Link) bool {
		for _, p := range predicates {
			if p(l) {
				return true
			}
		}
		return l.Dead()
	}
	removed := net.RemoveLinks(combined)
	for _, l := range removed {
		allowComplete = append(allowComplete, l.CompleteOnRemove...)
	}

	for _, l := range toAdd {
		if err := net.AddLink(l); err != nil {
			nr.reportError(err)
		}
	}

	for _, r := range dontComplete {
		if _, err := net.AdjustAlive(r, 1); err != nil {
			nr.reportError(err)
		}
	}
	for _, r := range allowComplete {
		if _, err := net.AdjustAlive(r, -1); err != nil {
			nr.reportError(err)
		}
	}
}
