package prompts

import "fmt"

// Style is a member of the closed humor-style catalog.
type Style string

const (
	StyleCasual      Style = "casual"
	StyleAbsurd      Style = "absurd"
	StyleWordplay    Style = "wordplay"
	StyleSituational Style = "situational"
	StyleSarcasm     Style = "sarcasm"
	StyleCute        Style = "cute"
	StyleDark        Style = "dark"
)

// Styles lists the catalog in display order.
var Styles = []Style{
	StyleCasual, StyleAbsurd, StyleWordplay, StyleSituational,
	StyleSarcasm, StyleCute, StyleDark,
}

// Example is a worked original → recreated pair used as few-shot guidance.
type Example struct {
	Original  string
	Recreated string
}

// StyleProfile carries the prompt fragment and worked examples for a style.
type StyleProfile struct {
	Style    Style
	Fragment string
	Examples []Example
}

// Valid reports whether s is in the catalog.
func (s Style) Valid() bool {
	_, ok := catalog[s]
	return ok
}

// Profile returns the catalog entry for s.
func (s Style) Profile() (StyleProfile, bool) {
	prof, ok := catalog[s]
	return prof, ok
}

// ParseStyle validates a caller-supplied style name.
func ParseStyle(name string) (Style, error) {
	s := Style(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown style %q", name)
	}
	return s, nil
}

// FilterStyles keeps only catalog members, in the given order, up to limit.
func FilterStyles(names []string, limit int) []Style {
	out := make([]Style, 0, len(names))
	for _, n := range names {
		if len(out) >= limit {
			break
		}
		if s := Style(n); s.Valid() {
			out = append(out, s)
		}
	}
	return out
}

// TitleStyle selects the tone of generated titles.
type TitleStyle string

const (
	TitleCatchy      TitleStyle = "catchy"
	TitleInformative TitleStyle = "informative"
	TitleClickbait   TitleStyle = "clickbait"
	TitleSimple      TitleStyle = "simple"
	TitleHumorous    TitleStyle = "humorous"
)

var titleInstructions = map[TitleStyle]string{
	TitleCatchy:      "눈길을 끄는 매력적인 제목 (호기심 유발)",
	TitleInformative: "내용을 명확히 전달하는 정보성 제목",
	TitleClickbait:   "클릭을 유도하는 자극적인 제목 (과도하지 않게)",
	TitleSimple:      "간단명료한 제목",
	TitleHumorous:    "유머러스하고 재치있는 제목",
}

// TitleStyles lists the accepted title styles.
var TitleStyles = []TitleStyle{TitleCatchy, TitleInformative, TitleClickbait, TitleSimple, TitleHumorous}

func ParseTitleStyle(name string) (TitleStyle, error) {
	s := TitleStyle(name)
	if _, ok := titleInstructions[s]; !ok {
		return "", fmt.Errorf("unknown title style %q", name)
	}
	return s, nil
}

var catalog = map[Style]StyleProfile{
	StyleCasual: {
		Style: StyleCasual,
		Fragment: `**스타일: 일상 유머**

일상에서 벌어지는 웃긴 상황이나 경험을 다룹니다.
- 공감 가능한 상황
- 친근한 말투
- 일상적 소재 (직장, 가족, 친구 등)
- 누구나 이해할 수 있는 간단한 유머`,
		Examples: []Example{
			{
				Original: "Person asks coworker if they tried turning off and on again",
				Recreated: `**제목**: IT팀의 만능 해결책

**내용**:
회사 노트북이 또 먹통이 돼서 IT팀에 전화했다.

나: "윤진씨, 노트북이 자꾸 멈춰요..."

윤진: "재부팅 해보셨어요?"

나: "네, 그래도 안 돼요."

윤진: "그럼... 한 번 더 해보세요."

10분 뒤 윤진씨가 와서... 재부팅을 했다.

그리고 고쳐졌다.

내가 뭘 잘못한 거지?`,
			},
			{
				Original: "Someone realizes they're talking to themselves while working from home",
				Recreated: `**제목**: 재택근무 3년차의 일상

**내용**:
오늘도 집에서 일하는데, 문득 깨달았다.

나: "이 코드 왜 이래? 이거 누가 짠 거야?"

(Git Blame 확인)

나: "...나네."

고양이: "야옹"

나: "그치? 너도 그렇게 생각하지?"

엄마: "누구랑 통화해?"

나: "...아무도요."`,
			},
		},
	},
	StyleAbsurd: {
		Style: StyleAbsurd,
		Fragment: `**스타일: 부조리 유머**

예상치 못한 전개와 비논리적인 상황으로 웃음을 줍니다.
- 상식을 벗어난 전개
- 엉뚱한 논리
- 급격한 분위기 전환
- 예측 불가능한 결말`,
	},
	StyleWordplay: {
		Style: StyleWordplay,
		Fragment: `**스타일: 말장난**

언어유희와 동음이의어를 활용한 유머입니다.
- 한국어 특성을 살린 말장난
- 발음 유사성 활용
- 의미의 이중성
- 재치 있는 표현`,
		Examples: []Example{
			{
				Original: "Pun about something being outstanding in its field",
				Recreated: `**제목**: 허수아비의 꿈

**내용**:
허수아비가 상을 받았다.

사회자: "올해의 우수사원상은 허수아비씨에게 돌아갑니다!"

기자: "비결이 뭔가요?"

허수아비: "그냥... 묵묵히 제 자리를 지켰습니다."

기자: "필드에서?"

허수아비: "네, 늘 밭에 서 있었죠. 그래서 밭에서 두각을 나타냈다고..."

기자: "네, 알겠습니다..."`,
			},
		},
	},
	StyleSituational: {
		Style: StyleSituational,
		Fragment: `**스타일: 상황 유머**

특정 상황에서 발생하는 아이러니나 반전을 다룹니다.
- 명확한 상황 설정
- 예상과 다른 결과
- 아이러니한 전개
- 반전 요소`,
		Examples: []Example{
			{
				Original: "Getting caught in an awkward situation at a store",
				Recreated: `**제목**: 편의점 민망 사건

**내용**:
편의점에서 바나나우유를 찾고 있었다.

냉장고를 뒤지는데 계속 안 보여서 점원에게 물어봤다.

나: "바나나우유 어디 있나요?"

점원: "지금 들고 계시는데요?"

내 손에는 바나나우유가 있었다.

나: "...감사합니다."

앞으로 저 편의점은 안 간다.`,
			},
		},
	},
	StyleSarcasm: {
		Style: StyleSarcasm,
		Fragment: `**스타일: 풍자/빈정**

현실을 비꼬거나 풍자하는 유머입니다.
- 사회 현상 비판
- 아이러니한 상황
- 냉소적 관점
- 간접적 표현

**주의**: 특정 개인이나 집단에 대한 직접적 비하는 피합니다.`,
	},
	StyleCute: {
		Style: StyleCute,
		Fragment: `**스타일: 귀여운 유머**

귀엽고 따뜻한 느낌의 유머입니다.
- 동물, 아이 등 귀여운 소재
- 순수하고 밝은 분위기
- 훈훈한 결말
- 가벼운 웃음`,
	},
	StyleDark: {
		Style: StyleDark,
		Fragment: `**스타일: 블랙 유머**

다소 어둡거나 냉소적인 소재를 다룹니다.
- 사회의 어두운 면
- 역설적 상황
- 냉정한 현실 인식
- 씁쓸한 웃음

**주의**: 선을 넘지 않도록 적절한 수위 유지.`,
	},
}
