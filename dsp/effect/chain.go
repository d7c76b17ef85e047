package effect

// Chain hosts effects in series. It is itself an Effect, so chains nest.
// The chain does no routing beyond signal order; graph topologies are out
// of scope for this engine.
type Chain struct {
	effects  []Effect
	ctx      Context
	maxBlock int
	prepared bool
	released bool
}

// NewChain creates a chain over the given effects in signal order.
func NewChain(effects ...Effect) *Chain {
	return &Chain{effects: effects}
}

// Append adds an effect to the end of the chain. If the chain is already
// prepared the new effect is prepared with the same configuration.
func (c *Chain) Append(e Effect) error {
	if c.prepared {
		err := e.Prepare(c.ctx, c.maxBlock)
		if err != nil {
			return err
		}
	}

	c.effects = append(c.effects, e)

	return nil
}

// Effects returns the hosted effects in signal order.
func (c *Chain) Effects() []Effect {
	return c.effects
}

// Prepare configures every effect with the same context and block bound.
func (c *Chain) Prepare(ctx Context, maxBlockSize int) error {
	err := ValidatePrepare(ctx, maxBlockSize)
	if err != nil {
		return err
	}

	for _, e := range c.effects {
		err := e.Prepare(ctx, maxBlockSize)
		if err != nil {
			return err
		}
	}

	c.ctx = ctx
	c.maxBlock = maxBlockSize
	c.prepared = true

	return nil
}

// Process runs the block through every effect in signal order.
func (c *Chain) Process(block []float64) {
	for _, e := range c.effects {
		e.Process(block)
	}
}

// ProcessStereo runs both channels through every effect in signal order.
func (c *Chain) ProcessStereo(left, right []float64) {
	for _, e := range c.effects {
		e.ProcessStereo(left, right)
	}
}

// Reset clears transient state of every effect.
func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

// Release releases every effect once.
func (c *Chain) Release() {
	if c.released {
		return
	}

	for _, e := range c.effects {
		e.Release()
	}

	c.released = true
}

// Latency returns the summed latency of the chain.
func (c *Chain) Latency() int {
	total := 0
	for _, e := range c.effects {
		total += e.Latency()
	}

	return total
}
