package automation

// SelectorList is an ordered list of lookup strategies. Strategies are tried
// in sequence and the first match wins.
type SelectorList []string

// Selector sets for the target login UI. Injected into the orchestrator so a
// UI change means swapping a list, not touching the state machine.
var (
	// PhoneInputSelectors locates the phone-entry field on the login route.
	PhoneInputSelectors = SelectorList{
		`input[type="tel"]`,
		`input[name="mobile"]`,
		`input[name="phone"]`,
		`#mobile`,
		`.ant-input[placeholder*="Phone"]`,
		`.ant-input[placeholder*="phone"]`,
	}

	// OtpInputSelectors locates the OTP entry field once the drawer opens.
	OtpInputSelectors = SelectorList{`#mobile_otp`}

	// ConfirmButtonSelectors is the preferred structural lookup for the
	// post-OTP confirmation control. The text-scan fallback lives in the
	// rendezvous poller.
	ConfirmButtonSelectors = SelectorList{
		`button[data-id="verify-otp-drawer-confirm-button"]`,
	}
)

// Selector names used by bounded waits.
const (
	OtpDrawerSelector      = "div.ant-drawer-body"
	OtpInputSelector       = "#mobile_otp"
	CaptchaFrameSelector   = `iframe[title="hCaptcha challenge"]`
	SendCodeButtonTexts    = "OTP,Send"
	ConfirmButtonTexts     = "CONFIRM,Verify"
	InteractiveControlsTag = "button"
)
