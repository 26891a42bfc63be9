package rubric

var Clarity = Rubric{
	Name:     "clarity",
	Title:    "Writing clarity",
	Criteria: []string{"structure", "concision", "audience_fit"},
	Guidelines: `Score the submitted text on how clearly it communicates.

structure (1-5)
- 5: a reader can state the main point after the first paragraph; sections follow a visible order.
- 3: the main point is present but buried; some sections could be reordered without loss.
- 1: no discernible main point or order.

concision (1-5)
- 5: every sentence carries information; no repeated claims.
- 3: noticeable padding or repetition, but the text is still readable in one pass.
- 1: the same idea is restated many times or hidden under filler.

audience_fit (1-5)
- 5: vocabulary and level of detail match the stated or obvious audience; jargon is defined.
- 3: occasional undefined jargon or over-explanation.
- 1: written for a clearly different audience than the one it addresses.

In the summary, quote at most two short phrases from the text to justify the lowest score.`,
}

var Viability = Rubric{
	Name:     "viability",
	Title:    "Product idea viability",
	Criteria: []string{"problem", "audience", "differentiation", "feasibility"},
	Guidelines: `Score the submitted product idea as an early-stage reviewer would.

problem (1-5)
- 5: names a specific, painful problem and who has it.
- 3: the problem is plausible but generic.
- 1: no problem is stated, only a solution.

audience (1-5)
- 5: a concrete first group of users is identified and reachable.
- 3: the audience is broad ("small businesses", "developers").
- 1: no audience is identified.

differentiation (1-5)
- 5: explains why existing alternatives fall short and what is different here.
- 3: mentions alternatives without a clear difference.
- 1: ignores obvious existing alternatives.

feasibility (1-5)
- 5: a first version could be built by a small team with known technology.
- 3: depends on one unproven capability.
- 1: depends on several unproven capabilities or on data nobody has access to.

Do not reward enthusiasm or polish. Judge only what is written.`,
}

var Trend = Rubric{
	Name:     "trend",
	Title:    "Search interest interpretation",
	Criteria: []string{"direction", "seasonality", "evidence"},
	Guidelines: `The submitted text describes search-interest data for one or more terms over time.
Score the interpretation it contains, not the underlying topic.

direction (1-5)
- 5: correctly states whether interest is rising, flat or falling and over which window.
- 3: states a direction without a time window.
- 1: the stated direction contradicts the data described.

seasonality (1-5)
- 5: separates recurring seasonal peaks from a long-term change.
- 3: mentions peaks without saying whether they recur.
- 1: treats a seasonal peak as a lasting change.

evidence (1-5)
- 5: every claim points to a value, date or comparison in the data.
- 3: some claims are unsupported.
- 1: conclusions are asserted without reference to the data.

Relative interest values are indexed to 100 at the peak of the selected range; do not read them as absolute volumes.`,
}
