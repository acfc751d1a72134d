package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeScan() string {
	return `Scans Python source for structural code smells.

DETECTORS:
- LongMethod: SLOC > 30 or cyclomatic complexity > 12
- GodClass: ATFD > 2 and WMC >= 10 and TCC < 0.6 (Marinescu blob rule)
- DuplicatedCode: exact clones (medium) and structural clones (low) of 3+ line blocks
- LargeParameterList: more than 6 counted parameters (self and keyword-only excluded)
- MagicNumbers: a non-whitelisted numeric literal repeated 3+ times
- FeatureEnvy: ATFD > 5 and LAA < 0.33 and FDP >= 2 on methods of 10+ SLOC

USE WHEN:
- Reviewing Python code quality before a merge
- Finding refactoring candidates in a module or package
- Checking whether an edit introduced new smells

INTERPRETING RESULTS:
- severity high: act on it; medium: worth a look; low: stylistic duplication
- a SyntaxError result means the file could not be parsed and no detectors ran
- details carry the raw metrics behind each finding (SLOC, ATFD, WMC, TCC, LAA, FDP)`
}

func describeListDetectors() string {
	return `Lists the six smell detectors with their enabled state and the
thresholds currently in effect, after applying any config file. Use it
to understand why a finding did or did not fire before adjusting
thresholds.`
}
