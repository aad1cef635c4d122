package tutor

import "fmt"

// QuickLookback is how many class levels below the student's own class are
// searched in quick mode.
const QuickLookback = 2

// PrerequisiteClasses returns the class levels to search for a student in
// classLevel, ascending. Quick mode looks back at most QuickLookback levels,
// deep mode goes all the way down to the subject's first available class.
// The result never leaves the subject's available span.
func PrerequisiteClasses(classLevel int, mode Mode, span ClassSpan) ([]int, error) {
	if span.Min <= 0 || span.Max < span.Min {
		return nil, fmt.Errorf("invalid class span [%d, %d]", span.Min, span.Max)
	}
	if classLevel < span.Min || classLevel > span.Max {
		return nil, fmt.Errorf("%w: class %d not in [%d, %d]", ErrClassOutOfRange, classLevel, span.Min, span.Max)
	}

	low := span.Min
	if mode != ModeDeep {
		if l := classLevel - QuickLookback; l > low {
			low = l
		}
	}

	classes := make([]int, 0, classLevel-low+1)
	for c := low; c <= classLevel; c++ {
		classes = append(classes, c)
	}
	return classes, nil
}
