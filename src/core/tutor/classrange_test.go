package tutor_test

import (
	"errors"
	"reflect"
	"testing"

	"vidya/src/core/tutor"
)

func TestPrerequisiteClasses(t *testing.T) {
	span := tutor.ClassSpan{Min: 6, Max: 12}

	tests := []struct {
		name       string
		classLevel int
		mode       tutor.Mode
		span       tutor.ClassSpan
		want       []int
		wantErr    error
	}{
		{
			name:       "quick mode looks back two classes",
			classLevel: 9,
			mode:       tutor.ModeQuick,
			span:       span,
			want:       []int{7, 8, 9},
		},
		{
			name:       "quick mode clamps at span minimum",
			classLevel: 7,
			mode:       tutor.ModeQuick,
			span:       span,
			want:       []int{6, 7},
		},
		{
			name:       "quick mode at the first class",
			classLevel: 6,
			mode:       tutor.ModeQuick,
			span:       span,
			want:       []int{6},
		},
		{
			name:       "deep mode goes down to the first class",
			classLevel: 10,
			mode:       tutor.ModeDeep,
			span:       span,
			want:       []int{6, 7, 8, 9, 10},
		},
		{
			name:       "unset mode behaves like quick",
			classLevel: 12,
			mode:       "",
			span:       span,
			want:       []int{10, 11, 12},
		},
		{
			name:       "class below span",
			classLevel: 5,
			mode:       tutor.ModeQuick,
			span:       span,
			wantErr:    tutor.ErrClassOutOfRange,
		},
		{
			name:       "class above span",
			classLevel: 13,
			mode:       tutor.ModeDeep,
			span:       span,
			wantErr:    tutor.ErrClassOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tutor.PrerequisiteClasses(tt.classLevel, tt.mode, tt.span)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("PrerequisiteClasses() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrerequisiteClasses() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PrerequisiteClasses() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrerequisiteClassesInvalidSpan(t *testing.T) {
	_, err := tutor.PrerequisiteClasses(3, tutor.ModeQuick, tutor.ClassSpan{Min: 5, Max: 3})
	if err == nil {
		t.Error("PrerequisiteClasses() expected error for inverted span")
	}
}

func TestPrerequisiteClassesStayInWindow(t *testing.T) {
	span := tutor.ClassSpan{Min: 1, Max: 12}
	for class := span.Min; class <= span.Max; class++ {
		classes, err := tutor.PrerequisiteClasses(class, tutor.ModeQuick, span)
		if err != nil {
			t.Fatalf("PrerequisiteClasses(%d) unexpected error: %v", class, err)
		}
		for _, c := range classes {
			if c > class || c < class-tutor.QuickLookback || c < span.Min {
				t.Errorf("PrerequisiteClasses(%d) returned class %d outside the quick window", class, c)
			}
		}
	}
}
